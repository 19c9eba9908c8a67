package classify

import (
	"context"

	"surveycoder/internal/codebook"
)

// GenerateCodebook synthesizes a thematic codebook from example responses.
// Any failure is logged and returned as nil.
func (s *Service) GenerateCodebook(ctx context.Context, model, question string, examples []string) *codebook.Codebook {
	system, user := generatePrompt(question, examples)
	return call[codebook.Codebook](ctx, s.client, s.log, model, system, user)
}

// MergeCodebooks consolidates two codebooks into one, optionally steered by
// user instructions. Any failure is logged and returned as nil.
func (s *Service) MergeCodebooks(ctx context.Context, model string, base, other *codebook.Codebook, instructions string) *codebook.Codebook {
	baseJSON, err := base.MarshalIndent()
	if err != nil {
		s.log.Warn("marshal base codebook failed", "error", err)
		return nil
	}
	otherJSON, err := other.MarshalIndent()
	if err != nil {
		s.log.Warn("marshal other codebook failed", "error", err)
		return nil
	}
	system, user := mergePrompt(string(baseJSON), string(otherJSON), instructions)
	return call[codebook.Codebook](ctx, s.client, s.log, model, system, user)
}
