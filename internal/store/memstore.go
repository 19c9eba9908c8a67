package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// MemStore is an in-memory Store for tests. Safe for concurrent use.
// Returned values are copies so callers cannot mutate stored state.
type MemStore struct {
	mu sync.Mutex

	projects        map[int64]*Project
	codebooks       map[int64]*CodebookVersion
	classifications map[int64]*Classification

	nextProjectID        int64
	nextCodebookID       int64
	nextClassificationID int64
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		projects:             make(map[int64]*Project),
		codebooks:            make(map[int64]*CodebookVersion),
		classifications:      make(map[int64]*Classification),
		nextProjectID:        1,
		nextCodebookID:       1,
		nextClassificationID: 1,
	}
}

func (m *MemStore) Close() error { return nil }

func copyProject(p *Project) *Project {
	cp := *p
	return &cp
}

func copyCodebook(cb *CodebookVersion) *CodebookVersion {
	cp := *cb
	cp.Data = append([]byte(nil), cb.Data...)
	return &cp
}

func copyClassification(c *Classification) *Classification {
	cp := *c
	cp.Details = append([]byte(nil), c.Details...)
	return &cp
}

func (m *MemStore) CreateProject(p *Project) (int64, error) {
	if p == nil {
		return 0, errors.New("project is nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.projects {
		if existing.Name == p.Name {
			return 0, fmt.Errorf("project %q already exists", p.Name)
		}
	}
	cp := copyProject(p)
	cp.ID = m.nextProjectID
	m.nextProjectID++
	now := nowUTC()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	m.projects[cp.ID] = cp
	return cp.ID, nil
}

func (m *MemStore) GetProject(name string) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.projects {
		if p.Name == name {
			return copyProject(p), nil
		}
	}
	return nil, nil
}

func (m *MemStore) ListProjects() ([]*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]*Project, 0, len(m.projects))
	for _, p := range m.projects {
		list = append(list, copyProject(p))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *MemStore) UpdateProject(p *Project) error {
	if p == nil {
		return errors.New("project is nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.projects[p.ID]
	if !ok {
		return fmt.Errorf("project %d not found", p.ID)
	}
	cp := copyProject(p)
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = nowUTC()
	m.projects[p.ID] = cp
	return nil
}

func (m *MemStore) DeleteProject(projectID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.projects, projectID)
	for id, cb := range m.codebooks {
		if cb.ProjectID == projectID {
			delete(m.codebooks, id)
		}
	}
	for id, c := range m.classifications {
		if c.ProjectID == projectID {
			delete(m.classifications, id)
		}
	}
	return nil
}

func (m *MemStore) SaveCodebook(projectID int64, data []byte) (*CodebookVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	version := 1
	for _, cb := range m.codebooks {
		if cb.ProjectID == projectID && cb.Version >= version {
			version = cb.Version + 1
		}
	}
	cb := &CodebookVersion{
		ID:        m.nextCodebookID,
		ProjectID: projectID,
		Version:   version,
		Data:      append([]byte(nil), data...),
		CreatedAt: nowUTC(),
	}
	m.nextCodebookID++
	m.codebooks[cb.ID] = cb
	return copyCodebook(cb), nil
}

func (m *MemStore) LatestCodebook(projectID int64) (*CodebookVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *CodebookVersion
	for _, cb := range m.codebooks {
		if cb.ProjectID != projectID {
			continue
		}
		if latest == nil || cb.Version > latest.Version {
			latest = cb
		}
	}
	if latest == nil {
		return nil, nil
	}
	return copyCodebook(latest), nil
}

func (m *MemStore) GetCodebookVersion(projectID int64, version int) (*CodebookVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cb := range m.codebooks {
		if cb.ProjectID == projectID && cb.Version == version {
			return copyCodebook(cb), nil
		}
	}
	return nil, nil
}

func (m *MemStore) ListCodebookVersions(projectID int64) ([]*CodebookVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []*CodebookVersion
	for _, cb := range m.codebooks {
		if cb.ProjectID == projectID {
			list = append(list, copyCodebook(cb))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Version < list[j].Version })
	return list, nil
}

func (m *MemStore) SaveClassification(c *Classification) (int64, error) {
	if c == nil {
		return 0, errors.New("classification is nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := copyClassification(c)
	cp.ID = m.nextClassificationID
	m.nextClassificationID++
	cp.CreatedAt = nowUTC()
	m.classifications[cp.ID] = cp
	return cp.ID, nil
}

func (m *MemStore) ListClassifications(projectID int64) ([]*Classification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []*Classification
	for _, c := range m.classifications {
		if c.ProjectID == projectID {
			list = append(list, copyClassification(c))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}
