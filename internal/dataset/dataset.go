// Package dataset loads survey responses from CSV files or plain text.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadResponses reads responses from path. CSV files need the named column;
// any other file is read as one response per line. Blank entries are
// skipped in both formats.
func LoadResponses(path, column string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return loadCSV(path, column)
	}
	return loadLines(path)
}

func loadCSV(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open responses: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read responses csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("responses csv %s is empty", path)
	}
	if column == "" {
		return nil, fmt.Errorf("csv input needs a response column name")
	}

	col := -1
	for i, h := range records[0] {
		if strings.EqualFold(strings.TrimSpace(h), column) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("column %q not found in %s", column, path)
	}

	var responses []string
	for _, rec := range records[1:] {
		if col >= len(rec) {
			continue
		}
		if v := strings.TrimSpace(rec[col]); v != "" {
			responses = append(responses, v)
		}
	}
	return responses, nil
}

func loadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read responses: %w", err)
	}
	var responses []string
	for _, line := range strings.Split(string(data), "\n") {
		if v := strings.TrimSpace(line); v != "" {
			responses = append(responses, v)
		}
	}
	return responses, nil
}
