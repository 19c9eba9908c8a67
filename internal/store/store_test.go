package store

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// openStores returns both Store implementations so every behavior is checked
// against SQLite and the in-memory double.
func openStores(t *testing.T) map[string]Store {
	t.Helper()
	sqlStore, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sql store: %v", err)
	}
	t.Cleanup(func() { _ = sqlStore.Close() })
	return map[string]Store{
		"sql": sqlStore,
		"mem": NewMemStore(),
	}
}

func mustCreateProject(t *testing.T, s Store, name string) int64 {
	t.Helper()
	id, err := s.CreateProject(&Project{
		Name:     name,
		Question: "Why did you choose us?",
		Column:   "answer",
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return id
}

func TestProjectLifecycle(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			id := mustCreateProject(t, s, "churn-survey")

			p, err := s.GetProject("churn-survey")
			if err != nil {
				t.Fatalf("get project: %v", err)
			}
			if p == nil {
				t.Fatal("project not found after create")
			}
			if p.ID != id || p.Question != "Why did you choose us?" || p.Column != "answer" {
				t.Errorf("unexpected project: %+v", p)
			}
			if p.CreatedAt == "" || p.UpdatedAt == "" {
				t.Error("timestamps not set")
			}

			p.Description = "quarterly churn survey"
			p.Question = "Why did you cancel?"
			if err := s.UpdateProject(p); err != nil {
				t.Fatalf("update project: %v", err)
			}
			got, err := s.GetProject("churn-survey")
			if err != nil {
				t.Fatal(err)
			}
			if got.Question != "Why did you cancel?" || got.Description != "quarterly churn survey" {
				t.Errorf("update not persisted: %+v", got)
			}

			mustCreateProject(t, s, "nps-survey")
			list, err := s.ListProjects()
			if err != nil {
				t.Fatal(err)
			}
			if len(list) != 2 || list[0].Name != "churn-survey" || list[1].Name != "nps-survey" {
				t.Errorf("unexpected project list: %+v", list)
			}

			if err := s.DeleteProject(id); err != nil {
				t.Fatalf("delete project: %v", err)
			}
			gone, err := s.GetProject("churn-survey")
			if err != nil {
				t.Fatal(err)
			}
			if gone != nil {
				t.Error("project still present after delete")
			}
		})
	}
}

func TestGetProject_NotFoundIsNilNil(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			p, err := s.GetProject("missing")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p != nil {
				t.Errorf("project = %+v, want nil", p)
			}
		})
	}
}

func TestCreateProject_DuplicateNameFails(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			mustCreateProject(t, s, "dup")
			if _, err := s.CreateProject(&Project{Name: "dup", Question: "q"}); err == nil {
				t.Error("expected error for duplicate project name")
			}
		})
	}
}

func TestCodebookVersioning(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			id := mustCreateProject(t, s, "p")

			if cb, err := s.LatestCodebook(id); err != nil || cb != nil {
				t.Fatalf("LatestCodebook on empty project = %+v, %v; want nil, nil", cb, err)
			}

			v1, err := s.SaveCodebook(id, []byte(`{"codes":[{"code":"A"}]}`))
			if err != nil {
				t.Fatalf("save codebook: %v", err)
			}
			if v1.Version != 1 {
				t.Errorf("first version = %d, want 1", v1.Version)
			}

			v2, err := s.SaveCodebook(id, []byte(`{"codes":[{"code":"A"},{"code":"B"}]}`))
			if err != nil {
				t.Fatal(err)
			}
			if v2.Version != 2 {
				t.Errorf("second version = %d, want 2", v2.Version)
			}

			latest, err := s.LatestCodebook(id)
			if err != nil {
				t.Fatal(err)
			}
			if latest == nil || latest.Version != 2 {
				t.Fatalf("latest = %+v, want version 2", latest)
			}
			if diff := cmp.Diff(v2.Data, latest.Data); diff != "" {
				t.Errorf("latest data mismatch (-want +got):\n%s", diff)
			}

			got, err := s.GetCodebookVersion(id, 1)
			if err != nil {
				t.Fatal(err)
			}
			if got == nil || string(got.Data) != `{"codes":[{"code":"A"}]}` {
				t.Errorf("version 1 = %+v", got)
			}
			if missing, err := s.GetCodebookVersion(id, 99); err != nil || missing != nil {
				t.Errorf("missing version = %+v, %v; want nil, nil", missing, err)
			}

			all, err := s.ListCodebookVersions(id)
			if err != nil {
				t.Fatal(err)
			}
			if len(all) != 2 || all[0].Version != 1 || all[1].Version != 2 {
				t.Errorf("unexpected version list: %+v", all)
			}
		})
	}
}

func TestCodebookVersioning_PerProject(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			a := mustCreateProject(t, s, "a")
			b := mustCreateProject(t, s, "b")

			if _, err := s.SaveCodebook(a, []byte(`{}`)); err != nil {
				t.Fatal(err)
			}
			cb, err := s.SaveCodebook(b, []byte(`{}`))
			if err != nil {
				t.Fatal(err)
			}
			if cb.Version != 1 {
				t.Errorf("other project's first version = %d, want 1", cb.Version)
			}
		})
	}
}

func TestClassifications(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			id := mustCreateProject(t, s, "p")
			cb, err := s.SaveCodebook(id, []byte(`{}`))
			if err != nil {
				t.Fatal(err)
			}

			for _, c := range []Classification{
				{ProjectID: id, CodebookID: cb.ID, Response: "too expensive", AssignedCode: "Price",
					Details: []byte(`[{"label":"Price","fragment":"expensive","pertinence":0.9}]`)},
				{ProjectID: id, CodebookID: cb.ID, Response: "meh", AssignedCode: "No Code Applied"},
			} {
				c := c
				if _, err := s.SaveClassification(&c); err != nil {
					t.Fatalf("save classification: %v", err)
				}
			}

			list, err := s.ListClassifications(id)
			if err != nil {
				t.Fatal(err)
			}
			if len(list) != 2 {
				t.Fatalf("classification count = %d, want 2", len(list))
			}
			// Newest first.
			if list[0].Response != "meh" || list[1].Response != "too expensive" {
				t.Errorf("unexpected order: %q, %q", list[0].Response, list[1].Response)
			}
			if list[1].AssignedCode != "Price" {
				t.Errorf("assigned code = %q, want Price", list[1].AssignedCode)
			}
			if len(list[1].Details) == 0 {
				t.Error("details not persisted")
			}
		})
	}
}

func TestOpen_ReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	id := mustCreateProject(t, s, "kept")
	if _, err := s.SaveCodebook(id, []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	p, err := s2.GetProject("kept")
	if err != nil {
		t.Fatal(err)
	}
	if p == nil {
		t.Fatal("project lost across reopen")
	}
	cb, err := s2.LatestCodebook(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cb == nil || cb.Version != 1 {
		t.Errorf("codebook lost across reopen: %+v", cb)
	}
}
