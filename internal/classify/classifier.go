package classify

import (
	"context"
	"encoding/json"
	"log/slog"

	"surveycoder/internal/llm"
	"surveycoder/internal/logging"
)

// Pipeline defaults.
const (
	DefaultBatchSize   = 64
	DefaultConcurrency = 8
)

// Service runs classification and codebook flows against an LLM client.
type Service struct {
	client      llm.Client
	log         *slog.Logger
	batchSize   int
	concurrency int
}

// NewService builds a Service; non-positive batchSize or concurrency fall
// back to the defaults.
func NewService(client llm.Client, batchSize, concurrency int) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Service{
		client:      client,
		log:         logging.New("classify"),
		batchSize:   batchSize,
		concurrency: concurrency,
	}
}

// defaultResult is what a response gets when the model produced nothing
// usable for it.
func defaultResult() Result {
	return Result{AssignedCode: NoCodeApplied, Details: []Evidence{}}
}

func defaultResults(n int) []Result {
	out := make([]Result, n)
	for i := range out {
		out[i] = defaultResult()
	}
	return out
}

// resultFrom collapses evidence items into one Result: labels joined with
// the pipe separator, the sentinel when no items were returned. When
// explanations are disabled any explanation text the model emitted anyway
// is dropped.
func resultFrom(items []Evidence, includeExplanation bool) Result {
	if len(items) == 0 {
		return defaultResult()
	}
	details := make([]Evidence, len(items))
	copy(details, items)
	code := ""
	for i, it := range details {
		if !includeExplanation {
			details[i].Explanation = ""
		}
		if i > 0 {
			code += labelSeparator
		}
		code += it.Label
	}
	return Result{AssignedCode: code, Details: details}
}

// ClassifyResponse classifies a single response. A failed call or unusable
// output yields the default result, never an error.
func (s *Service) ClassifyResponse(ctx context.Context, req Request, response string) Result {
	var system, user string
	if req.MultiLabel {
		system, user = multiPrompt(req, response)
	} else {
		system, user = singlePrompt(req, response)
	}
	out := call[Output](ctx, s.client, s.log, req.Model, system, user)
	if out == nil {
		return defaultResult()
	}
	return resultFrom(out.Items, req.IncludeExplanation)
}

// ClassifyBatch classifies one batch of responses in a single call. The
// returned slice always has len(responses) entries: each model entry is
// slotted by its declared index, entries with missing, non-integer, or
// out-of-range indices are dropped, and unfilled slots keep the default
// result. An empty batch makes no call.
func (s *Service) ClassifyBatch(ctx context.Context, req Request, responses []string) []Result {
	results := defaultResults(len(responses))
	if len(responses) == 0 {
		return results
	}

	system, user := batchPrompt(req, responses)
	out := call[batchOutput](ctx, s.client, s.log, req.Model, system, user)
	if out == nil {
		return results
	}

	for _, entry := range out.Results {
		var idx int
		if err := json.Unmarshal(entry.Index, &idx); err != nil {
			s.log.Debug("dropping batch entry with non-integer index", "index", string(entry.Index))
			continue
		}
		if idx < 0 || idx >= len(responses) {
			s.log.Debug("dropping batch entry with out-of-range index", "index", idx, "batch_len", len(responses))
			continue
		}
		results[idx] = resultFrom(entry.Items, req.IncludeExplanation)
	}
	return results
}
