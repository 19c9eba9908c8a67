package codebook

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a codebook from a .json or .csv file, dispatching on extension.
func Load(path string) (*Codebook, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported codebook format %q (use .json or .csv)", filepath.Ext(path))
	}
}

// Save writes a codebook to a .json or .csv file, dispatching on extension.
func Save(cb *Codebook, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SaveJSON(cb, path)
	case ".csv":
		return SaveCSV(cb, path)
	default:
		return fmt.Errorf("unsupported codebook format %q (use .json or .csv)", filepath.Ext(path))
	}
}

// LoadJSON reads a codebook from the JSON export format:
// {"codes":[{"code","description","examples"}]}.
func LoadJSON(path string) (*Codebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read codebook: %w", err)
	}
	var cb Codebook
	if err := json.Unmarshal(data, &cb); err != nil {
		return nil, fmt.Errorf("parse codebook JSON: %w", err)
	}
	return &cb, nil
}

// SaveJSON writes the indented JSON export format.
func SaveJSON(cb *Codebook, path string) error {
	data, err := cb.MarshalIndent()
	if err != nil {
		return fmt.Errorf("marshal codebook: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write codebook: %w", err)
	}
	return nil
}

// LoadCSV reads the CSV export format: columns code,description,examples
// where examples is a JSON-encoded string array. A non-JSON examples cell is
// treated as a single example; rows with an empty code are skipped.
func LoadCSV(path string) (*Codebook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open codebook: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse codebook CSV: %w", err)
	}
	if len(rows) == 0 {
		return &Codebook{}, nil
	}

	col := map[string]int{}
	for i, name := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	codeIdx, ok := col["code"]
	if !ok {
		return nil, fmt.Errorf("codebook CSV is missing a %q column", "code")
	}
	descIdx, hasDesc := col["description"]
	exIdx, hasEx := col["examples"]

	cb := &Codebook{}
	for _, row := range rows[1:] {
		code := strings.TrimSpace(cell(row, codeIdx))
		if code == "" {
			continue
		}
		c := Code{Code: code}
		if hasDesc {
			c.Description = strings.TrimSpace(cell(row, descIdx))
		}
		if hasEx {
			c.Examples = parseExamples(cell(row, exIdx))
		}
		cb.Codes = append(cb.Codes, c)
	}
	return cb, nil
}

// SaveCSV writes the CSV export format (examples as a JSON array string,
// empty when the code has none).
func SaveCSV(cb *Codebook, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create codebook: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"code", "description", "examples"}); err != nil {
		return fmt.Errorf("write codebook header: %w", err)
	}
	for _, c := range cb.Codes {
		examples := ""
		if len(c.Examples) > 0 {
			data, err := json.Marshal(c.Examples)
			if err != nil {
				return fmt.Errorf("marshal examples for %q: %w", c.Code, err)
			}
			examples = string(data)
		}
		if err := w.Write([]string{c.Code, c.Description, examples}); err != nil {
			return fmt.Errorf("write codebook row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseExamples(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var examples []string
	if err := json.Unmarshal([]byte(raw), &examples); err != nil {
		return []string{raw}
	}
	return examples
}
