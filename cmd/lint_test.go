// Package cmd provides the nameguard CLI commands.
// This file contains tests for the lint command and shared helpers.
package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/nameguard/core/analyzer"
)

// =============================================================================
// Lint Command Tests
// =============================================================================

func TestLintCmd_Definition(t *testing.T) {
	t.Run("command is defined", func(t *testing.T) {
		assert.NotNil(t, lintCmd)
		assert.Equal(t, "lint [file]", lintCmd.Use)
	})

	t.Run("command has flags", func(t *testing.T) {
		flags := lintCmd.Flags()

		threshold := flags.Lookup("threshold")
		require.NotNil(t, threshold)
		assert.Equal(t, "t", threshold.Shorthand)

		require.NotNil(t, flags.Lookup("policy"))
		require.NotNil(t, flags.Lookup("json"))

		workers := flags.Lookup("workers")
		require.NotNil(t, workers)
		assert.Equal(t, "w", workers.Shorthand)
	})
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make([]string, 0)
	for _, sub := range rootCmd.Commands() {
		names = append(names, sub.Name())
	}

	assert.Contains(t, names, "lint")
	assert.Contains(t, names, "suggest")
	assert.Contains(t, names, "complexity")
	assert.Contains(t, names, "model")
}

// =============================================================================
// Input Helper Tests
// =============================================================================

func TestReadSQLInput_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 1"), 0o644))

	sql, err := readSQLInput([]string{path}, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", sql)
}

func TestReadSQLInput_FromStdin(t *testing.T) {
	sql, err := readSQLInput(nil, strings.NewReader("SELECT 2"))
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2", sql)

	sql, err = readSQLInput([]string{"-"}, strings.NewReader("SELECT 3"))
	require.NoError(t, err)
	assert.Equal(t, "SELECT 3", sql)
}

func TestReadSQLInput_MissingFile(t *testing.T) {
	_, err := readSQLInput([]string{filepath.Join(t.TempDir(), "nope.sql")}, strings.NewReader(""))
	assert.Error(t, err)
}

// =============================================================================
// Output Helper Tests
// =============================================================================

func TestSummarizeCode(t *testing.T) {
	assert.Equal(t, "SELECT 1", summarizeCode("SELECT 1"))
	assert.Equal(t, "SELECT a, b FROM t", summarizeCode("SELECT a,\n\tb\nFROM t"))

	long := strings.Repeat("x", 100)
	assert.Len(t, summarizeCode(long), 73)
	assert.True(t, strings.HasSuffix(summarizeCode(long), "..."))
}

func TestScopeLabel(t *testing.T) {
	assert.Equal(t, "(top level)", scopeLabel(nil))
	assert.Equal(t, "totals > sub", scopeLabel([]string{"totals", "sub"}))
}

func TestSeverityColor(t *testing.T) {
	assert.Equal(t, colorRed, severityColor(analyzer.SeverityPoor))
	assert.Equal(t, colorYellow, severityColor(analyzer.SeverityReview))
}
