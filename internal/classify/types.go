// Package classify implements the LLM classification pipeline: prompt
// construction, batched classification with index-tolerant realignment, a
// bounded-concurrency batch scheduler, and codebook synthesis/merge flows.
package classify

import "encoding/json"

// NoCodeApplied is the sentinel assigned-code value for a response the model
// matched to no code, or produced no usable result for.
const NoCodeApplied = "No Code Applied"

// labelSeparator joins multiple code labels into one assigned-code string.
const labelSeparator = " | "

// Evidence is one code assignment with its supporting excerpt. Explanation
// is empty when explanations are disabled for the run.
type Evidence struct {
	Label       string  `json:"label"`
	Fragment    string  `json:"fragment"`
	Pertinence  float64 `json:"pertinence"`
	Explanation string  `json:"explanation,omitempty"`
}

// Output is the structured result of classifying a single response.
type Output struct {
	Items []Evidence `json:"items"`
}

// batchEntry is one per-response entry in the model's batch output. Index is
// kept raw so one malformed index invalidates that entry alone, not the
// whole batch decode.
type batchEntry struct {
	Index json.RawMessage `json:"index"`
	Items []Evidence      `json:"items"`
}

// batchOutput is the expected shape of a batch classification response.
type batchOutput struct {
	Results []batchEntry `json:"results"`
}

// Result is one aligned per-response classification: the pipe-joined code
// labels (or the sentinel) plus the evidence behind them.
type Result struct {
	AssignedCode string     `json:"assigned_code"`
	Details      []Evidence `json:"details"`
}

// Request carries the per-run classification parameters shared by every
// batch in a run.
type Request struct {
	Question           string
	CodebookText       string
	Model              string
	MultiLabel         bool
	IncludeExplanation bool
}
