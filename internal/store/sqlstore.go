package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// nullStr converts a sql.NullString to a plain string (empty if null).
func nullStr(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// DefaultPath returns the default database location under the user's home
// directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".surveycoder", "surveycoder.db")
}

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite DB at path and runs migrations.
// Creates the parent directory (e.g. ~/.surveycoder) if it does not exist.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	var tableCount int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableCount == 0 {
		// Fresh database.
		if _, err := s.db.Exec(schemaV1); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", currentSchemaVersion); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	}

	var v int
	if err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != currentSchemaVersion {
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

// Close closes the database connection.
func (s *SqlStore) Close() error {
	return s.db.Close()
}

// CreateProject inserts a project and returns its id. Names are unique.
func (s *SqlStore) CreateProject(p *Project) (int64, error) {
	if p == nil {
		return 0, errors.New("project is nil")
	}
	now := nowUTC()
	res, err := s.db.Exec(
		`INSERT INTO projects(name, description, question, column_name, created_at, updated_at)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.Question, p.Column, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// GetProject returns the project by name, or nil if not found.
func (s *SqlStore) GetProject(name string) (*Project, error) {
	var p Project
	var desc, column sql.NullString
	err := s.db.QueryRow(
		`SELECT id, name, description, question, column_name, created_at, updated_at
		 FROM projects WHERE name = ?`,
		name,
	).Scan(&p.ID, &p.Name, &desc, &p.Question, &column, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	p.Description = nullStr(desc)
	p.Column = nullStr(column)
	return &p, nil
}

// ListProjects returns all projects ordered by id.
func (s *SqlStore) ListProjects() ([]*Project, error) {
	rows, err := s.db.Query(
		`SELECT id, name, description, question, column_name, created_at, updated_at
		 FROM projects ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	var list []*Project
	for rows.Next() {
		var p Project
		var desc, column sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &desc, &p.Question, &column, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.Description = nullStr(desc)
		p.Column = nullStr(column)
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return list, nil
}

// UpdateProject updates the mutable project fields and bumps updated_at.
func (s *SqlStore) UpdateProject(p *Project) error {
	if p == nil {
		return errors.New("project is nil")
	}
	res, err := s.db.Exec(
		`UPDATE projects SET name=?, description=?, question=?, column_name=?, updated_at=? WHERE id=?`,
		p.Name, p.Description, p.Question, p.Column, nowUTC(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("project %d not found", p.ID)
	}
	return nil
}

// DeleteProject removes a project and everything hanging off it.
func (s *SqlStore) DeleteProject(projectID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM classifications WHERE project_id = ?", projectID); err != nil {
		return fmt.Errorf("delete classifications: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM codebooks WHERE project_id = ?", projectID); err != nil {
		return fmt.Errorf("delete codebooks: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM projects WHERE id = ?", projectID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete tx: %w", err)
	}
	return nil
}

// SaveCodebook stores a new codebook snapshot for the project. The version
// is assigned inside the transaction so concurrent saves cannot collide.
func (s *SqlStore) SaveCodebook(projectID int64, data []byte) (*CodebookVersion, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var version int
	err = tx.QueryRow(
		"SELECT COALESCE(MAX(version), 0) + 1 FROM codebooks WHERE project_id = ?", projectID,
	).Scan(&version)
	if err != nil {
		return nil, fmt.Errorf("next codebook version: %w", err)
	}

	now := nowUTC()
	res, err := tx.Exec(
		"INSERT INTO codebooks(project_id, version, data, created_at) VALUES(?, ?, ?, ?)",
		projectID, version, data, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert codebook: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save tx: %w", err)
	}
	return &CodebookVersion{ID: id, ProjectID: projectID, Version: version, Data: data, CreatedAt: now}, nil
}

// LatestCodebook returns the highest-version codebook for the project, or
// nil if none exists.
func (s *SqlStore) LatestCodebook(projectID int64) (*CodebookVersion, error) {
	var cb CodebookVersion
	err := s.db.QueryRow(
		`SELECT id, project_id, version, data, created_at
		 FROM codebooks WHERE project_id = ? ORDER BY version DESC LIMIT 1`,
		projectID,
	).Scan(&cb.ID, &cb.ProjectID, &cb.Version, &cb.Data, &cb.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest codebook: %w", err)
	}
	return &cb, nil
}

// GetCodebookVersion returns one specific codebook version, or nil.
func (s *SqlStore) GetCodebookVersion(projectID int64, version int) (*CodebookVersion, error) {
	var cb CodebookVersion
	err := s.db.QueryRow(
		`SELECT id, project_id, version, data, created_at
		 FROM codebooks WHERE project_id = ? AND version = ?`,
		projectID, version,
	).Scan(&cb.ID, &cb.ProjectID, &cb.Version, &cb.Data, &cb.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get codebook version: %w", err)
	}
	return &cb, nil
}

// ListCodebookVersions returns all codebook versions for the project,
// oldest first.
func (s *SqlStore) ListCodebookVersions(projectID int64) ([]*CodebookVersion, error) {
	rows, err := s.db.Query(
		`SELECT id, project_id, version, data, created_at
		 FROM codebooks WHERE project_id = ? ORDER BY version`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list codebooks: %w", err)
	}
	defer rows.Close()
	var list []*CodebookVersion
	for rows.Next() {
		var cb CodebookVersion
		if err := rows.Scan(&cb.ID, &cb.ProjectID, &cb.Version, &cb.Data, &cb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan codebook: %w", err)
		}
		list = append(list, &cb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list codebooks: %w", err)
	}
	return list, nil
}

// SaveClassification inserts one classified response and returns its id.
func (s *SqlStore) SaveClassification(c *Classification) (int64, error) {
	if c == nil {
		return 0, errors.New("classification is nil")
	}
	res, err := s.db.Exec(
		`INSERT INTO classifications(project_id, codebook_id, response, assigned_code, details, created_at)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		c.ProjectID, c.CodebookID, c.Response, c.AssignedCode, []byte(c.Details), nowUTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert classification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// ListClassifications returns the project's classifications, newest first.
func (s *SqlStore) ListClassifications(projectID int64) ([]*Classification, error) {
	rows, err := s.db.Query(
		`SELECT id, project_id, codebook_id, response, assigned_code, details, created_at
		 FROM classifications WHERE project_id = ? ORDER BY id DESC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	defer rows.Close()
	var list []*Classification
	for rows.Next() {
		var c Classification
		var details []byte
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.CodebookID, &c.Response, &c.AssignedCode, &details, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan classification: %w", err)
		}
		c.Details = details
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	return list, nil
}
