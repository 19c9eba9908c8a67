// Package store persists projects, versioned codebooks, and classification
// results. SqlStore is the SQLite-backed implementation; MemStore backs
// tests.
package store

import "encoding/json"

// Project is one survey coding project: a question, the response column it
// reads, and the codebook/classification history hanging off it.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Question    string `json:"question"`
	Column      string `json:"column,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// CodebookVersion is one immutable snapshot of a project's codebook.
// Versions are monotonic per project, starting at 1. Data is the codebook
// JSON document.
type CodebookVersion struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	Version   int    `json:"version"`
	Data      []byte `json:"data"`
	CreatedAt string `json:"created_at"`
}

// Classification is one classified response: the pipe-joined assigned code
// string and the evidence details JSON, tied to the codebook version used.
type Classification struct {
	ID           int64           `json:"id"`
	ProjectID    int64           `json:"project_id"`
	CodebookID   int64           `json:"codebook_id"`
	Response     string          `json:"response"`
	AssignedCode string          `json:"assigned_code"`
	Details      json.RawMessage `json:"details,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

// Store is the persistence interface. Lookups return (nil, nil) when the
// entity does not exist.
type Store interface {
	CreateProject(p *Project) (int64, error)
	GetProject(name string) (*Project, error)
	ListProjects() ([]*Project, error)
	UpdateProject(p *Project) error
	DeleteProject(projectID int64) error

	SaveCodebook(projectID int64, data []byte) (*CodebookVersion, error)
	LatestCodebook(projectID int64) (*CodebookVersion, error)
	GetCodebookVersion(projectID int64, version int) (*CodebookVersion, error)
	ListCodebookVersions(projectID int64) ([]*CodebookVersion, error)

	SaveClassification(c *Classification) (int64, error)
	ListClassifications(projectID int64) ([]*Classification, error)

	Close() error
}
