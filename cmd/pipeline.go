// Package cmd provides the nameguard CLI commands.
// This file wires config, grammar, embedder, and analyzer for the commands.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/adalundhe/nameguard/core/analyzer"
	"github.com/adalundhe/nameguard/core/config"
	"github.com/adalundhe/nameguard/core/embed"
	"github.com/adalundhe/nameguard/core/extract"
	"github.com/adalundhe/nameguard/core/sqltree"
	"github.com/adalundhe/nameguard/core/suggest"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// =============================================================================
// Shared Wiring
// =============================================================================

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// readSQLInput returns the statement to analyze: the first argument is a
// file path, "-" or no argument reads stdin.
func readSQLInput(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

func newGrammar(cfg *config.Config) *sqltree.Grammar {
	opts := []sqltree.GrammarOption{}
	if cfg.Grammar.Dir != "" {
		opts = append(opts, sqltree.WithTrustedDir(cfg.Grammar.Dir))
	}
	if cfg.Grammar.AutoDownload {
		opts = append(opts, sqltree.WithDownloader(newDownloader(cfg)))
	}
	return sqltree.NewGrammar(opts...)
}

func newDownloader(cfg *config.Config) *sqltree.Downloader {
	return sqltree.NewDownloader(cfg.Grammar.Dir)
}

func newEmbedder(cfg *config.Config) (embed.Embedder, func() error, error) {
	var (
		inner   embed.Embedder
		cleanup = func() error { return nil }
	)

	if cfg.Embedding.Model == "remote" {
		remote, err := embed.NewRemoteEmbedder(embed.RemoteConfig{
			APIKey:    cfg.Embedding.Remote.APIKey,
			BaseURL:   cfg.Embedding.Remote.BaseURL,
			Model:     cfg.Embedding.Remote.Model,
			Dimension: cfg.Embedding.Remote.Dimension,
			Timeout:   cfg.Embedding.Remote.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		inner = remote
	} else {
		onnx, err := embed.NewONNXEmbedder(embed.ONNXConfig{
			Model:          cfg.Embedding.Model,
			CacheDir:       cfg.Embedding.CacheDir,
			OrtLibraryPath: cfg.Embedding.OrtLibraryPath,
		})
		if err != nil {
			return nil, nil, err
		}
		inner = onnx
		cleanup = onnx.Close
	}

	if cfg.Embedding.CacheSize > 0 {
		cached, err := embed.NewCachedEmbedder(inner, cfg.Embedding.CacheSize)
		if err != nil {
			return nil, nil, err
		}
		return cached, cleanup, nil
	}
	return inner, cleanup, nil
}

func newAnalyzer(cfg *config.Config, logger *slog.Logger) (*analyzer.Analyzer, *sqltree.Grammar, func() error, error) {
	grammar := newGrammar(cfg)
	extractor, err := extract.New(grammar)
	if err != nil {
		return nil, nil, nil, err
	}

	embedder, closeEmbedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	a, err := analyzer.New(analyzer.Config{
		Source:   extractor,
		Embedder: embedder,
		Logger:   logger,
		Policy:   cfg.FailurePolicy(),
		Workers:  cfg.Analysis.Workers,
	})
	if err != nil {
		closeEmbedder()
		return nil, nil, nil, err
	}
	return a, grammar, closeEmbedder, nil
}

func newSuggester(cfg *config.Config) (suggest.Suggester, error) {
	registry := suggest.NewRegistry()

	if cfg.Suggest.Anthropic.APIKey != "" {
		providerCfg := suggest.DefaultConfig()
		providerCfg.APIKey = cfg.Suggest.Anthropic.APIKey
		providerCfg.Model = cfg.Suggest.Anthropic.Model
		if err := registry.RegisterAnthropic(providerCfg); err != nil {
			return nil, err
		}
	}
	if cfg.Suggest.OpenAI.APIKey != "" {
		providerCfg := suggest.DefaultConfig()
		providerCfg.APIKey = cfg.Suggest.OpenAI.APIKey
		providerCfg.Model = cfg.Suggest.OpenAI.Model
		if err := registry.RegisterOpenAI(providerCfg); err != nil {
			return nil, err
		}
	}

	if cfg.Suggest.Provider != "" {
		s, err := registry.Get(suggest.ProviderType(cfg.Suggest.Provider))
		if err == nil {
			return s, nil
		}
	}
	return registry.Default()
}

// severityColor maps a finding severity onto a terminal color.
func severityColor(severity analyzer.Severity) string {
	if severity == analyzer.SeverityPoor {
		return colorRed
	}
	return colorYellow
}

func scopeLabel(scope []string) string {
	if len(scope) == 0 {
		return "(top level)"
	}
	return strings.Join(scope, " > ")
}
