package config

import "fmt"

// EmbeddingConfig defines configuration for the embedding provider.
// The whole catalog and every query must be embedded with the same model and
// dimensionality; mixing models within one collection is undefined.
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"` // "azure" or "openai-compatible"
	Model      string `mapstructure:"model"`    // model or Azure deployment name
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	APIVersion string `mapstructure:"api_version"` // Azure only
	Dimensions int    `mapstructure:"dimensions"`
}

// Validate checks that the embedding configuration has all required fields.
// Returns an error describing the first validation failure, or nil if valid.
func (c *EmbeddingConfig) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("embedding: provider is required")
	}
	switch c.Provider {
	case "azure", "openai-compatible":
	default:
		return fmt.Errorf("embedding: unknown provider %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("embedding: model is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("embedding: base_url is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("embedding: api_key is required (set AZURE_OPENAI_EMBED_KEY)")
	}
	if c.Dimensions <= 0 {
		return fmt.Errorf("embedding: dimensions must be positive")
	}
	return nil
}
