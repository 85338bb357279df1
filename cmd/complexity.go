// Package cmd provides the nameguard CLI commands.
// This file implements the complexity command for SSCS scoring.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/adalundhe/nameguard/core/complexity"
)

// =============================================================================
// Complexity Command Flags
// =============================================================================

var (
	complexityLimit     float64
	complexityThreshold float64
	complexityJSON      bool
	complexityVerbose   bool
)

// =============================================================================
// Complexity Command
// =============================================================================

// complexityCmd represents the complexity command.
var complexityCmd = &cobra.Command{
	Use:   "complexity [file]",
	Short: "Score semantic-structural complexity",
	Long: `Score a SQL statement with the semantic-structural complexity score
(SSCS): a structural component from clause and nesting weights, multiplied
by a semantic penalty derived from alias quality.

Each CTE is scored separately from the main query, and components over the
complexity limit are flagged.

Examples:
  nameguard complexity query.sql
  nameguard complexity query.sql --limit 20 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runComplexity,
}

func init() {
	rootCmd.AddCommand(complexityCmd)

	complexityCmd.Flags().Float64VarP(&complexityLimit, "limit", "l", 0, "Complexity limit for warnings (default from config)")
	complexityCmd.Flags().Float64VarP(&complexityThreshold, "threshold", "t", 0, "Similarity threshold in (0, 1] (default from config)")
	complexityCmd.Flags().BoolVar(&complexityJSON, "json", false, "Output as JSON")
	complexityCmd.Flags().BoolVarP(&complexityVerbose, "verbose", "v", false, "Verbose logging")
}

// runComplexity scores the input statement.
func runComplexity(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if complexityLimit != 0 {
		cfg.Complexity.Threshold = complexityLimit
	}
	if complexityThreshold != 0 {
		cfg.Analysis.Threshold = complexityThreshold
	}

	sql, err := readSQLInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	logger := newLogger(complexityVerbose)
	a, grammar, closeEmbedder, err := newAnalyzer(cfg, logger)
	if err != nil {
		return err
	}
	defer closeEmbedder()

	calculator, err := complexity.NewCalculator(complexity.Config{
		Grammar:  grammar,
		Analyzer: a,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	report, err := calculator.Calculate(cmd.Context(), sql, cfg.Complexity.Threshold, cfg.Analysis.Threshold)
	if err != nil {
		return err
	}
	return outputComplexityReport(cmd.OutOrStdout(), report, cfg.Complexity.Threshold)
}

// =============================================================================
// Output
// =============================================================================

func outputComplexityReport(w io.Writer, report *complexity.Report, limit float64) error {
	if complexityJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	fmt.Fprintf(w, "%s%sComplexity Report%s %s(limit %.1f)%s\n\n", colorBold, colorCyan, colorReset, colorGray, limit, colorReset)

	for _, component := range report.Components {
		printComponent(w, component, limit)
	}
	fmt.Fprintln(w)
	printComponent(w, report.Overall, limit)

	fmt.Fprintf(w, "\n%sAliases:%s %d analyzed, %d flagged, mean similarity %.3f\n",
		colorGray, colorReset,
		report.Aliases.Total, len(report.Aliases.LowSimilarity), report.Aliases.AverageSimilarity)
	return nil
}

func printComponent(w io.Writer, component complexity.ComponentScore, limit float64) {
	color := colorGreen
	if component.SSCS > limit {
		color = colorRed
	}
	fmt.Fprintf(w, "%s%-24s%s structural %.1f  penalty %.3f  SSCS %s%.1f%s\n",
		colorBold, component.Name, colorReset,
		component.Structural, component.SemanticPenalty,
		color, component.SSCS, colorReset)
}
