package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/nameguard/core/analyzer"
)

// =============================================================================
// Semantic Penalty Tests
// =============================================================================

func TestSemanticPenalty_NoElements(t *testing.T) {
	penalty, stats := semanticPenalty(&analyzer.Report{})

	assert.Equal(t, 0.0, penalty)
	assert.Equal(t, 0, stats.Total)
}

func TestSemanticPenalty_AllAliasesPass(t *testing.T) {
	report := &analyzer.Report{
		Results: []analyzer.Result{{Score: 0.9}, {Score: 0.8}},
	}

	penalty, stats := semanticPenalty(report)
	assert.Equal(t, 0.0, penalty)
	assert.Equal(t, 2, stats.Total)
	assert.InDelta(t, 0.85, stats.AverageSimilarity, 1e-9)
	assert.Empty(t, stats.LowSimilarity)
}

func TestSemanticPenalty_AveragesBadnessOverAllResults(t *testing.T) {
	report := &analyzer.Report{
		Results: []analyzer.Result{
			{Score: 0.9},
			{Score: 0.2},
			{Score: 0.4},
			{Score: 0.8},
		},
		Findings: []analyzer.Finding{
			{Alias: "a", Score: 0.2},
			{Alias: "b", Score: 0.4},
		},
	}

	penalty, stats := semanticPenalty(report)

	// 0.5 * ((1-0.2) + (1-0.4)) / 4
	assert.InDelta(t, 0.175, penalty, 1e-9)
	assert.Equal(t, 4, stats.Total)
	assert.Len(t, stats.LowSimilarity, 2)
	assert.InDelta(t, 0.575, stats.AverageSimilarity, 1e-9)
}

// =============================================================================
// Component Score Tests
// =============================================================================

func TestComponentScore_MultipliesStructuralByPenalty(t *testing.T) {
	score := componentScore("main query", 10, 0.2)

	assert.Equal(t, "main query", score.Name)
	assert.Equal(t, 10.0, score.Structural)
	assert.Equal(t, 0.2, score.SemanticPenalty)
	assert.InDelta(t, 12.0, score.SSCS, 1e-9)
}

func TestComponentScore_ZeroPenaltyLeavesStructural(t *testing.T) {
	score := componentScore("totals", 7.5, 0)
	assert.Equal(t, 7.5, score.SSCS)
}

// =============================================================================
// Calculator Tests
// =============================================================================

func TestNewCalculator_RequiresDependencies(t *testing.T) {
	_, err := NewCalculator(Config{})
	require.Error(t, err)
}

func TestDefaultWeights_BranchingCountsDouble(t *testing.T) {
	assert.Equal(t, 2.0, defaultWeights["case"])
	assert.Equal(t, 2.0, defaultWeights["window_specification"])
	assert.Equal(t, 1.0, defaultWeights["join"])
	assert.Equal(t, 1.0, defaultWeights["where"])
	assert.Equal(t, 1.0, defaultWeights["subquery"])
}
