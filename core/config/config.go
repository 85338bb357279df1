// Package config loads the nameguard configuration file. Analysis
// parameters like the similarity threshold stay explicit per call; the file
// only holds environment wiring (models, cache paths, provider credentials)
// and defaults the CLI feeds into those calls.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/adalundhe/nameguard/core/analyzer"
	"github.com/adalundhe/nameguard/core/complexity"
	"github.com/adalundhe/nameguard/core/embed"
)

type Config struct {
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Grammar    GrammarConfig    `yaml:"grammar"`
	Suggest    SuggestConfig    `yaml:"suggest"`
	Complexity ComplexityConfig `yaml:"complexity"`
}

type EmbeddingConfig struct {
	// Model is a name registered in core/embed; "remote" selects the
	// OpenAI-compatible remote embedder instead of a local ONNX model.
	Model          string `yaml:"model"`
	CacheDir       string `yaml:"cache_dir"`
	OrtLibraryPath string `yaml:"ort_library_path"`
	// CacheSize > 0 layers the LRU embedding cache over the model.
	CacheSize int `yaml:"cache_size"`

	Remote RemoteEmbeddingConfig `yaml:"remote"`
}

type RemoteEmbeddingConfig struct {
	APIKey    string        `yaml:"api_key"`
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	Dimension int           `yaml:"dimension"`
	Timeout   time.Duration `yaml:"timeout"`
}

type AnalysisConfig struct {
	Threshold float64 `yaml:"threshold"`
	Workers   int     `yaml:"workers"`
	// Policy is "fail_fast" or "skip".
	Policy string `yaml:"policy"`
}

type GrammarConfig struct {
	Dir          string `yaml:"dir"`
	AutoDownload bool   `yaml:"auto_download"`
}

type SuggestConfig struct {
	Provider  string         `yaml:"provider"`
	Anthropic ProviderConfig `yaml:"anthropic"`
	OpenAI    ProviderConfig `yaml:"openai"`
}

type ProviderConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type ComplexityConfig struct {
	Threshold float64 `yaml:"threshold"`
}

func Default() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Model: embed.DefaultModel,
		},
		Analysis: AnalysisConfig{
			Threshold: analyzer.DefaultThreshold,
			Workers:   1,
			Policy:    "fail_fast",
		},
		Grammar: GrammarConfig{
			AutoDownload: true,
		},
		Suggest: SuggestConfig{
			Provider: "anthropic",
		},
		Complexity: ComplexityConfig{
			Threshold: complexity.DefaultComplexityThreshold,
		},
	}
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nameguard", "config.yaml")
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. Provider API keys default from the environment
// (ANTHROPIC_API_KEY, OPENAI_API_KEY) when the file leaves them empty.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults only.
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if cfg.Suggest.Anthropic.APIKey == "" {
		cfg.Suggest.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.Suggest.OpenAI.APIKey == "" {
		cfg.Suggest.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Embedding.Remote.APIKey == "" {
		cfg.Embedding.Remote.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

func (c *Config) Validate() error {
	if c.Analysis.Threshold <= 0 || c.Analysis.Threshold > 1 {
		return fmt.Errorf("analysis.threshold %v is outside (0, 1]", c.Analysis.Threshold)
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("analysis.workers must not be negative")
	}
	switch c.Analysis.Policy {
	case "", "fail_fast", "skip":
	default:
		return fmt.Errorf("analysis.policy %q is not one of fail_fast, skip", c.Analysis.Policy)
	}
	switch c.Suggest.Provider {
	case "", "anthropic", "openai":
	default:
		return fmt.Errorf("suggest.provider %q is not one of anthropic, openai", c.Suggest.Provider)
	}
	return nil
}

// FailurePolicy maps the config string onto the analyzer's policy type.
func (c *Config) FailurePolicy() analyzer.FailurePolicy {
	if c.Analysis.Policy == "skip" {
		return analyzer.PolicySkip
	}
	return analyzer.PolicyFailFast
}
