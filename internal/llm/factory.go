package llm

import (
	"fmt"
	"strings"
)

// New builds a Client for the configured provider. Ollama is served through
// the OpenAI-compatible client pointed at the Ollama /v1 endpoint; the API
// key is a dummy value because Ollama ignores it but the client requires one.
func New(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL), nil

	case "anthropic", "claude":
		return NewAnthropicClient(cfg.APIKey, cfg.BaseURL), nil

	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = strings.TrimRight(baseURL, "/") + "/v1"
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		return NewOpenAIClient(apiKey, baseURL), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
