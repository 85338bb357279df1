// Package cmd provides the nameguard CLI commands.
// This file implements the suggest command for LLM-backed alias renaming.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/adalundhe/nameguard/core/analyzer"
	"github.com/adalundhe/nameguard/core/suggest"
)

// =============================================================================
// Suggest Command Flags
// =============================================================================

var (
	suggestThreshold float64
	suggestProvider  string
	suggestJSON      bool
	suggestVerbose   bool
)

// =============================================================================
// Suggest Command
// =============================================================================

// suggestCmd represents the suggest command.
var suggestCmd = &cobra.Command{
	Use:   "suggest [file]",
	Short: "Suggest replacement names for failing aliases",
	Long: `Analyze a SQL statement, then ask the configured LLM provider for
replacement names for every alias that falls below the similarity
threshold.

Requires a provider API key (ANTHROPIC_API_KEY or OPENAI_API_KEY, or the
suggest section of the config file).

Examples:
  nameguard suggest query.sql
  nameguard suggest query.sql --provider openai
  cat query.sql | nameguard suggest --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().Float64VarP(&suggestThreshold, "threshold", "t", 0, "Similarity threshold in (0, 1] (default from config)")
	suggestCmd.Flags().StringVar(&suggestProvider, "provider", "", "Suggestion provider: anthropic or openai")
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "Output as JSON")
	suggestCmd.Flags().BoolVarP(&suggestVerbose, "verbose", "v", false, "Verbose logging")
}

// findingSuggestion pairs a finding with the provider's candidates.
type findingSuggestion struct {
	Finding    analyzer.Finding `json:"finding"`
	Candidates []string         `json:"candidates,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// runSuggest analyzes the statement and collects rename candidates.
func runSuggest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if suggestThreshold != 0 {
		cfg.Analysis.Threshold = suggestThreshold
	}
	if suggestProvider != "" {
		cfg.Suggest.Provider = suggestProvider
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	sql, err := readSQLInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	suggester, err := newSuggester(cfg)
	if err != nil {
		return err
	}

	logger := newLogger(suggestVerbose)
	a, _, closeEmbedder, err := newAnalyzer(cfg, logger)
	if err != nil {
		return err
	}
	defer closeEmbedder()

	findings, err := a.Analyze(cmd.Context(), sql, cfg.Analysis.Threshold)
	if err != nil {
		return err
	}

	suggestions := collectSuggestions(cmd, suggester, findings)
	return outputSuggestions(cmd.OutOrStdout(), suggestions)
}

// collectSuggestions asks the provider per finding. A provider failure for
// one alias does not abort the rest.
func collectSuggestions(cmd *cobra.Command, suggester suggest.Suggester, findings []analyzer.Finding) []findingSuggestion {
	out := make([]findingSuggestion, 0, len(findings))
	for _, finding := range findings {
		entry := findingSuggestion{Finding: finding}

		suggestion, err := suggester.Suggest(cmd.Context(), finding.Type, finding.Code)
		if err != nil {
			entry.Error = err.Error()
		} else {
			entry.Candidates = suggestion.Candidates
		}
		out = append(out, entry)
	}
	return out
}

// =============================================================================
// Output
// =============================================================================

func outputSuggestions(w io.Writer, suggestions []findingSuggestion) error {
	if suggestJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(suggestions)
	}

	if len(suggestions) == 0 {
		fmt.Fprintf(w, "%s%sAll aliases pass; nothing to suggest.%s\n", colorBold, colorGreen, colorReset)
		return nil
	}

	for _, s := range suggestions {
		color := severityColor(s.Finding.Severity)
		fmt.Fprintf(w, "%s[%s]%s %s%s%s (%s) score %.3f\n",
			color, s.Finding.Severity, colorReset,
			colorBold, s.Finding.Alias, colorReset,
			s.Finding.Type, s.Finding.Score)

		if s.Error != "" {
			fmt.Fprintf(w, "  %ssuggestion failed:%s %s\n", colorRed, colorReset, s.Error)
			continue
		}
		for i, candidate := range s.Candidates {
			fmt.Fprintf(w, "  %s%d.%s %s\n", colorGray, i+1, colorReset, candidate)
		}
	}
	return nil
}
