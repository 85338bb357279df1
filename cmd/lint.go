// Package cmd provides the nameguard CLI commands.
// This file implements the lint command for alias quality analysis.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adalundhe/nameguard/core/analyzer"
)

// =============================================================================
// Lint Command Flags
// =============================================================================

var (
	lintThreshold float64
	lintPolicy    string
	lintWorkers   int
	lintJSON      bool
	lintVerbose   bool
)

// =============================================================================
// Lint Command
// =============================================================================

// lintCmd represents the lint command.
var lintCmd = &cobra.Command{
	Use:   "lint [file]",
	Short: "Analyze SQL alias quality",
	Long: `Analyze a SQL statement and report aliases whose names do not match
the code they label.

Reads from a file argument, or from stdin when the argument is "-" or
missing. Every CTE name, table alias, and column alias is embedded together
with its definition; pairs whose similarity falls below the threshold are
reported as findings.

Examples:
  nameguard lint query.sql
  nameguard lint query.sql --threshold 0.8
  cat query.sql | nameguard lint --json
  nameguard lint query.sql --policy skip --workers 4`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().Float64VarP(&lintThreshold, "threshold", "t", 0, "Similarity threshold in (0, 1] (default from config)")
	lintCmd.Flags().StringVar(&lintPolicy, "policy", "", "Element failure policy: fail_fast or skip")
	lintCmd.Flags().IntVarP(&lintWorkers, "workers", "w", 0, "Parallel embedding workers (default from config)")
	lintCmd.Flags().BoolVar(&lintJSON, "json", false, "Output as JSON")
	lintCmd.Flags().BoolVarP(&lintVerbose, "verbose", "v", false, "Verbose logging")
}

// runLint analyzes the input statement and prints the report.
func runLint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if lintThreshold != 0 {
		cfg.Analysis.Threshold = lintThreshold
	}
	if lintPolicy != "" {
		cfg.Analysis.Policy = lintPolicy
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if lintWorkers != 0 {
		cfg.Analysis.Workers = lintWorkers
	}

	sql, err := readSQLInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	logger := newLogger(lintVerbose)
	a, _, closeEmbedder, err := newAnalyzer(cfg, logger)
	if err != nil {
		return err
	}
	defer closeEmbedder()

	report, err := a.AnalyzeReport(cmd.Context(), sql, cfg.Analysis.Threshold)
	if err != nil {
		return err
	}

	if err := outputLintReport(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if len(report.Findings) > 0 {
		return fmt.Errorf("%d alias finding(s) below threshold %.2f", len(report.Findings), report.Threshold)
	}
	return nil
}

// =============================================================================
// Output
// =============================================================================

func outputLintReport(w io.Writer, report *analyzer.Report) error {
	if lintJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}
	return outputRichLintReport(w, report)
}

func outputRichLintReport(w io.Writer, report *analyzer.Report) error {
	fmt.Fprintf(w, "%s%sAlias Analysis%s %s(run %s)%s\n", colorBold, colorCyan, colorReset, colorGray, report.RunID, colorReset)
	fmt.Fprintf(w, "%sThreshold:%s %.2f  %sElements:%s %d\n\n",
		colorGray, colorReset, report.Threshold,
		colorGray, colorReset, len(report.Results))

	for _, finding := range report.Findings {
		color := severityColor(finding.Severity)
		fmt.Fprintf(w, "%s[%s]%s %s%s%s (%s) score %.3f\n",
			color, finding.Severity, colorReset,
			colorBold, finding.Alias, colorReset,
			finding.Type, finding.Score)
		fmt.Fprintf(w, "  %sscope:%s %s\n", colorGray, colorReset, scopeLabel(finding.ScopePath))
		fmt.Fprintf(w, "  %scode:%s  %s\n", colorGray, colorReset, summarizeCode(finding.Code))
	}

	for _, skipped := range report.Skipped {
		fmt.Fprintf(w, "%s[skipped]%s %s: %s\n", colorYellow, colorReset, skipped.Ref, skipped.Cause)
	}

	fmt.Fprintln(w)
	if len(report.Findings) == 0 {
		fmt.Fprintf(w, "%s%sAll aliases pass.%s\n", colorBold, colorGreen, colorReset)
	} else {
		fmt.Fprintf(w, "%s%s%d finding(s).%s\n", colorBold, colorRed, len(report.Findings), colorReset)
	}
	return nil
}

// summarizeCode flattens a code span onto one display line.
func summarizeCode(code string) string {
	const limit = 70
	flat := strings.Join(strings.Fields(code), " ")
	if len(flat) > limit {
		return flat[:limit] + "..."
	}
	return flat
}
