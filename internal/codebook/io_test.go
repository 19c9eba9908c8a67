package codebook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleCodebook() *Codebook {
	return &Codebook{Codes: []Code{
		{Code: "Positive", Description: "Praise", Examples: []string{"Great service!", "Love it"}},
		{Code: "Negative", Description: "Complaints", Examples: []string{"Terrible support"}},
		{Code: "Other", Description: "Anything else"},
	}}
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codebook.json")
	cb := sampleCodebook()

	if err := Save(cb, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cb, got); diff != "" {
		t.Errorf("JSON round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codebook.csv")
	cb := sampleCodebook()

	if err := Save(cb, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cb, got); diff != "" {
		t.Errorf("CSV round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCSV_PlainExamplesCell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codebook.csv")
	csv := "code,description,examples\nPrice,Mentions cost,too expensive\n,skipped row,\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}

	cb, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(cb.Codes) != 1 {
		t.Fatalf("expected 1 code (empty-code row skipped), got %d", len(cb.Codes))
	}
	if diff := cmp.Diff([]string{"too expensive"}, cb.Codes[0].Examples); diff != "" {
		t.Errorf("non-JSON examples cell should become a single example (-want +got):\n%s", diff)
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	if _, err := Load("codebook.xlsx"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
