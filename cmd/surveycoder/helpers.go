package main

import (
	"fmt"

	"surveycoder/internal/classify"
	"surveycoder/internal/codebook"
	"surveycoder/internal/llm"
	"surveycoder/internal/store"
)

// openStore resolves the database path (flag, then config, then default)
// and opens it.
func openStore() (*store.SqlStore, error) {
	path := rootFlags.dbPath
	if path == "" {
		path = cfg.DBPath
	}
	if path == "" {
		path = store.DefaultPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// newService builds the classification service from the loaded config.
func newService() (*classify.Service, error) {
	client, err := llm.New(llm.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	return classify.NewService(client, cfg.Pipeline.BatchSize, cfg.Pipeline.Concurrency), nil
}

// requireProject loads a project by name or fails with a uniform error.
func requireProject(st store.Store, name string) (*store.Project, error) {
	p, err := st.GetProject(name)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("project %q not found (run 'surveycoder project init %s' first)", name, name)
	}
	return p, nil
}

// requireCodebook loads the project's codebook: a specific version when
// version > 0, otherwise the latest.
func requireCodebook(st store.Store, p *store.Project, version int) (*store.CodebookVersion, *codebook.Codebook, error) {
	var cv *store.CodebookVersion
	var err error
	if version > 0 {
		cv, err = st.GetCodebookVersion(p.ID, version)
	} else {
		cv, err = st.LatestCodebook(p.ID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load codebook: %w", err)
	}
	if cv == nil {
		return nil, nil, fmt.Errorf("project %q has no codebook (generate or import one first)", p.Name)
	}
	cb, err := codebook.Parse(cv.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse codebook v%d: %w", cv.Version, err)
	}
	return cv, cb, nil
}
