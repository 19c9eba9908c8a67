// Package config loads tool configuration from ~/.surveycoder/config.yaml
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LLMConfig selects the provider and models. Model is used for
// classification calls, AnalystModel for codebook generation and merge.
type LLMConfig struct {
	Provider     string `yaml:"provider"`
	Model        string `yaml:"model"`
	AnalystModel string `yaml:"analyst_model"`
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
}

// PipelineConfig tunes the batch scheduler.
type PipelineConfig struct {
	BatchSize   int `yaml:"batch_size"`
	Concurrency int `yaml:"concurrency"`
}

// Config is the full tool configuration.
type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	DBPath   string         `yaml:"db_path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:     "openai",
			Model:        "gpt-4o-mini",
			AnalystModel: "gpt-4o",
		},
		Pipeline: PipelineConfig{
			BatchSize:   64,
			Concurrency: 8,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".surveycoder", "config.yaml")
}

// Load reads the config file at path (DefaultPath if empty), applies
// environment overrides, and fills gaps with defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

// applyEnv overrides file values from the environment. SURVEYCODER_API_KEY
// wins over the provider-specific key variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("SURVEYCODER_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("SURVEYCODER_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("SURVEYCODER_ANALYST_MODEL"); v != "" {
		c.LLM.AnalystModel = v
	}
	if v := os.Getenv("SURVEYCODER_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("SURVEYCODER_DB_PATH"); v != "" {
		c.DBPath = v
	}

	switch c.LLM.Provider {
	case "anthropic", "claude":
		if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
			c.LLM.APIKey = v
		}
	default:
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			c.LLM.APIKey = v
		}
	}
	if v := os.Getenv("SURVEYCODER_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
}

func (c *Config) normalize() {
	def := Default()
	if c.LLM.Provider == "" {
		c.LLM.Provider = def.LLM.Provider
	}
	if c.LLM.Model == "" {
		c.LLM.Model = def.LLM.Model
	}
	if c.LLM.AnalystModel == "" {
		c.LLM.AnalystModel = c.LLM.Model
	}
	if c.Pipeline.BatchSize <= 0 {
		c.Pipeline.BatchSize = def.Pipeline.BatchSize
	}
	if c.Pipeline.Concurrency <= 0 {
		c.Pipeline.Concurrency = def.Pipeline.Concurrency
	}
}
