package suggest

import (
	"fmt"
	"time"
)

// Config is shared provider configuration. Timeout and retry policy live
// here, at the collaborator boundary, not in the analysis pipeline.
type Config struct {
	APIKey      string        `json:"api_key" yaml:"api_key"`
	Model       string        `json:"model" yaml:"model"`
	BaseURL     string        `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	MaxTokens   int           `json:"max_tokens" yaml:"max_tokens"`
	Temperature float64       `json:"temperature" yaml:"temperature"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
}

func DefaultConfig() Config {
	return Config{
		MaxTokens:   1000,
		Temperature: 1.0,
		Timeout:     30 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	return nil
}
