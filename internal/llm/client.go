// Package llm provides the model client adapter: a minimal chat-completion
// interface with OpenAI, Anthropic, and Ollama backends. Callers send a
// system prompt and a user prompt and get back raw text; structured-output
// decoding and failure policy live with the caller.
package llm

import "context"

// Client is the single contract the classification pipeline depends on.
// The model identifier is passed per call because different flows use
// different models (codebook synthesis vs. bulk classification).
type Client interface {
	Complete(ctx context.Context, model, system, user string) (string, error)
}

// Config selects and configures a provider backend.
type Config struct {
	Provider string // "openai", "anthropic", "ollama"
	APIKey   string
	BaseURL  string // optional override; required for ollama
}
