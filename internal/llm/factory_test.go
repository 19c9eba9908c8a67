package llm

import "testing"

func TestNew_KnownProviders(t *testing.T) {
	for _, provider := range []string{"openai", "OpenAI", "anthropic", "claude", "ollama"} {
		c, err := New(Config{Provider: provider, APIKey: "test-key"})
		if err != nil {
			t.Errorf("New(%q): unexpected error: %v", provider, err)
		}
		if c == nil {
			t.Errorf("New(%q): nil client", provider)
		}
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	if _, err := New(Config{Provider: "mystery"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}
