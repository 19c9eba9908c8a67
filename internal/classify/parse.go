package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"surveycoder/internal/llm"
)

// cleanJSON strips markdown code fences and surrounding prose so the payload
// runs from the first opening brace to the last closing one.
func cleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}

func parseJSON[T any](raw string) (*T, error) {
	var out T
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &out); err != nil {
		return nil, fmt.Errorf("parse llm output: %w", err)
	}
	return &out, nil
}

// call sends one completion and decodes it into T. Every failure mode,
// transport or parse, is logged and collapsed into a nil result so callers
// can substitute defaults instead of aborting.
func call[T any](ctx context.Context, client llm.Client, log *slog.Logger, model, system, user string) *T {
	raw, err := client.Complete(ctx, model, system, user)
	if err != nil {
		log.Warn("llm call failed", "model", model, "error", err)
		return nil
	}
	out, err := parseJSON[T](raw)
	if err != nil {
		log.Warn("llm output unusable", "model", model, "error", err)
		return nil
	}
	return out
}
