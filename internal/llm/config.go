package llm

import (
	"encoding/json"
	"fmt"
	"os"
)

// FileConfig is the on-disk shape of an --llm-config file: the
// Anthropic API key and, optionally, a default model override.
type FileConfig struct {
	APIKey string `json:"apiKey"`
	Model  string `json:"model,omitempty"`
}

// LoadProviderFromFile reads path and constructs the Provider it
// describes.
func LoadProviderFromFile(path string) (Provider, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read llm config %s: %w", path, err)
	}

	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, "", fmt.Errorf("parse llm config %s: %w", path, err)
	}
	if cfg.APIKey == "" {
		return nil, "", fmt.Errorf("llm config %s: apiKey is required", path)
	}

	return NewAnthropicProvider(cfg.APIKey), cfg.Model, nil
}
