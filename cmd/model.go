// Package cmd provides the nameguard CLI commands.
// This file implements the model command for prefetching local assets.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/adalundhe/nameguard/core/embed"
)

// =============================================================================
// Model Command Flags
// =============================================================================

var (
	modelJSON bool
)

// =============================================================================
// Model Command
// =============================================================================

// modelCmd represents the model command.
var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Manage local analysis assets",
	Long: `Manage the local assets lint depends on: the ONNX embedding model and
the SQL grammar library.

Subcommands:
  status    - Show which assets are installed
  download  - Download the embedding model and build the SQL grammar

Examples:
  nameguard model status
  nameguard model download`,
	RunE: runModelStatus,
}

// modelStatusCmd shows asset status.
var modelStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show installed analysis assets",
	RunE:  runModelStatus,
}

// modelDownloadCmd fetches missing assets.
var modelDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the embedding model and SQL grammar",
	Long: `Download the configured embedding model from Hugging Face and clone
and compile the SQL grammar. Both land under the cache directories from the
config file, and subsequent runs reuse them.`,
	RunE: runModelDownload,
}

func init() {
	rootCmd.AddCommand(modelCmd)
	modelCmd.AddCommand(modelStatusCmd)
	modelCmd.AddCommand(modelDownloadCmd)

	modelCmd.PersistentFlags().BoolVar(&modelJSON, "json", false, "Output as JSON")
}

// =============================================================================
// Model Status
// =============================================================================

// modelStatusOutput is the JSON output for model status.
type modelStatusOutput struct {
	Model            string `json:"model"`
	ModelKnown       bool   `json:"model_known"`
	GrammarInstalled bool   `json:"grammar_installed"`
	GrammarPath      string `json:"grammar_path,omitempty"`
	KnownModels      []string `json:"known_models"`
}

// runModelStatus reports which assets are in place.
func runModelStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	grammar := newGrammar(cfg)
	_, known := embed.LookupModel(cfg.Embedding.Model)

	status := &modelStatusOutput{
		Model:            cfg.Embedding.Model,
		ModelKnown:       known || cfg.Embedding.Model == "remote",
		GrammarInstalled: grammar.Installed(),
		GrammarPath:      grammar.LibraryPath(),
		KnownModels:      embed.Models(),
	}

	if modelJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(status)
	}
	return outputRichModelStatus(cmd.OutOrStdout(), status)
}

func outputRichModelStatus(w io.Writer, status *modelStatusOutput) error {
	fmt.Fprintf(w, "%s%sAnalysis Assets%s\n", colorBold, colorCyan, colorReset)

	fmt.Fprintf(w, "%sModel:%s   %s", colorGray, colorReset, status.Model)
	if !status.ModelKnown {
		fmt.Fprintf(w, " %s(unknown; known: %v)%s", colorRed, status.KnownModels, colorReset)
	}
	fmt.Fprintln(w)

	if status.GrammarInstalled {
		fmt.Fprintf(w, "%sGrammar:%s %sinstalled%s (%s)\n", colorGray, colorReset, colorGreen, colorReset, status.GrammarPath)
	} else {
		fmt.Fprintf(w, "%sGrammar:%s %smissing%s - run 'nameguard model download'\n", colorGray, colorReset, colorYellow, colorReset)
	}
	return nil
}

// =============================================================================
// Model Download
// =============================================================================

// runModelDownload fetches the embedding model and the grammar.
func runModelDownload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if cfg.Embedding.Model != "remote" {
		embedder, err := embed.NewONNXEmbedder(embed.ONNXConfig{
			Model:          cfg.Embedding.Model,
			CacheDir:       cfg.Embedding.CacheDir,
			OrtLibraryPath: cfg.Embedding.OrtLibraryPath,
		})
		if err != nil {
			return err
		}
		defer embedder.Close()

		fmt.Fprintf(out, "Fetching embedding model %s...\n", cfg.Embedding.Model)
		if err := embedder.EnsureModel(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(out, "%sModel ready.%s\n", colorGreen, colorReset)
	}

	grammar := newGrammar(cfg)
	if grammar.Installed() {
		fmt.Fprintf(out, "%sGrammar already installed%s (%s)\n", colorGreen, colorReset, grammar.LibraryPath())
		return nil
	}

	downloader := newDownloader(cfg)
	fmt.Fprintln(out, "Building SQL grammar...")
	libPath, err := downloader.EnsureGrammarContext(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%sGrammar ready%s (%s)\n", colorGreen, colorReset, libPath)
	return nil
}
