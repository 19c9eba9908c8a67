// Package codebook defines the classification taxonomy, an ordered list of
// coded themes, and its text, JSON, and CSV representations.
package codebook

import (
	"encoding/json"
	"fmt"
)

// Code is one theme in a codebook: a short label, a description, and a few
// verbatim example responses. Codes are immutable once saved; edits produce
// a new codebook version.
type Code struct {
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Examples    []string `json:"examples"`
}

// Codebook is an ordered set of codes. Label uniqueness is a convention,
// not enforced.
type Codebook struct {
	Codes []Code `json:"codes"`
}

// Empty reports whether the codebook has no codes.
func (cb *Codebook) Empty() bool {
	return cb == nil || len(cb.Codes) == 0
}

// MarshalIndent renders the codebook as indented JSON, the form embedded in
// merge prompts and written by JSON export.
func (cb *Codebook) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(cb, "", "  ")
}

// Parse decodes a stored codebook JSON document.
func Parse(data []byte) (*Codebook, error) {
	var cb Codebook
	if err := json.Unmarshal(data, &cb); err != nil {
		return nil, fmt.Errorf("parse codebook: %w", err)
	}
	return &cb, nil
}
