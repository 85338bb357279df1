// Package complexity computes the semantic-structural complexity score
// (SSCS) of a SQL statement: a weighted structural count of its clauses,
// inflated by a penalty for poorly named aliases.
//
//	SSCS = structural × (1 + semantic penalty)
//
// CTEs are scored as independent components with depth reset to zero, which
// rewards breaking deep nesting into named stages.
package complexity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adalundhe/nameguard/core/analyzer"
	"github.com/adalundhe/nameguard/core/sqltree"
)

// Structural weights by grammar node kind. Branching and window logic count
// double; everything else adds one.
var defaultWeights = map[string]float64{
	"join":                 1,
	"where":                1,
	"group_by":             1,
	"having":               1,
	"order_by":             1,
	"case":                 2,
	"window_specification": 2,
	"window_function":      2,
	"keyword_and":          1,
	"keyword_or":           1,
	"subquery":             1,
}

const (
	// depthPenalty is added per nesting level on top of a node's weight.
	depthPenalty = 0.5
	// semanticWeight scales the alias-quality penalty into the final score.
	semanticWeight = 0.5

	DefaultComplexityThreshold = 15.0
)

// ComponentScore is the breakdown for one scored unit: a CTE or the main
// query, plus an aggregate "overall" entry.
type ComponentScore struct {
	Name            string  `json:"name"`
	SSCS            float64 `json:"sscs"`
	Structural      float64 `json:"structural"`
	SemanticPenalty float64 `json:"semantic_penalty"`
}

// AliasStats summarizes the alias analysis behind the semantic penalty.
type AliasStats struct {
	Total             int                `json:"total"`
	LowSimilarity     []analyzer.Finding `json:"low_similarity,omitempty"`
	AverageSimilarity float64            `json:"average_similarity"`
}

type Report struct {
	Components []ComponentScore `json:"components"`
	Overall    ComponentScore   `json:"overall"`
	Aliases    AliasStats       `json:"alias_analysis"`
}

type Config struct {
	Grammar  *sqltree.Grammar
	Analyzer *analyzer.Analyzer
	Logger   *slog.Logger
}

type Calculator struct {
	grammar  *sqltree.Grammar
	analyzer *analyzer.Analyzer
	logger   *slog.Logger
	weights  map[string]float64
}

func NewCalculator(cfg Config) (*Calculator, error) {
	if cfg.Grammar == nil {
		return nil, fmt.Errorf("complexity: grammar is required")
	}
	if cfg.Analyzer == nil {
		return nil, fmt.Errorf("complexity: analyzer is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{
		grammar:  cfg.Grammar,
		analyzer: cfg.Analyzer,
		logger:   logger,
		weights:  defaultWeights,
	}, nil
}

// Calculate scores the statement. complexityThreshold only controls warning
// logs; similarityThreshold feeds the alias analysis behind the semantic
// penalty.
func (c *Calculator) Calculate(ctx context.Context, sql string, complexityThreshold, similarityThreshold float64) (*Report, error) {
	lang, err := c.grammar.Language()
	if err != nil {
		return nil, err
	}
	parser, err := sqltree.NewParser(lang)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	source := []byte(sql)
	tree, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	// The analyzer re-parses the statement, but it also enforces the parse
	// failure contract, so a malformed statement never reaches scoring.
	analysis, err := c.analyzer.AnalyzeReport(ctx, sql, similarityThreshold)
	if err != nil {
		return nil, err
	}

	penalty, stats := semanticPenalty(analysis)

	report := &Report{Aliases: stats}
	var structTotal float64

	root := tree.RootNode()
	for _, cte := range findNodes(root, "cte") {
		name := cteName(cte)
		score := c.structuralScore(cte, 0, true)
		structTotal += score
		report.Components = append(report.Components, componentScore(name, score, penalty))
		c.warnIfHigh(name, score*(1+penalty), complexityThreshold)
	}

	mainScore := c.structuralScore(root, 0, false)
	structTotal += mainScore
	report.Components = append(report.Components, componentScore("main query", mainScore, penalty))
	c.warnIfHigh("main query", mainScore*(1+penalty), complexityThreshold)

	report.Overall = componentScore("overall", structTotal, penalty)
	return report, nil
}

func componentScore(name string, structural, penalty float64) ComponentScore {
	return ComponentScore{
		Name:            name,
		SSCS:            structural * (1 + penalty),
		Structural:      structural,
		SemanticPenalty: penalty,
	}
}

func (c *Calculator) warnIfHigh(name string, sscs, threshold float64) {
	if threshold > 0 && sscs > threshold {
		c.logger.Warn("high complexity score",
			"component", name,
			"sscs", sscs,
			"threshold", threshold)
	}
}

// structuralScore recursively sums node weights with a depth penalty.
// When insideCTE is false, cte subtrees are excluded so their complexity is
// not double counted against the main query.
func (c *Calculator) structuralScore(node *sqltree.Node, depth float64, insideCTE bool) float64 {
	if node == nil {
		return 0
	}
	if !insideCTE && node.Kind() == "cte" {
		return 0
	}

	var score float64
	if w, ok := c.weights[node.Kind()]; ok {
		score += w + depthPenalty*depth
	}

	next := depth
	if node.Kind() == "subquery" {
		next++
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		score += c.structuralScore(node.Child(i), next, insideCTE)
	}
	return score
}

// semanticPenalty averages the "badness" (1 - score) of below-threshold
// aliases over all scored elements, scaled by semanticWeight.
func semanticPenalty(report *analyzer.Report) (float64, AliasStats) {
	stats := AliasStats{
		Total:         len(report.Results),
		LowSimilarity: report.Findings,
	}
	if len(report.Results) == 0 {
		return 0, stats
	}

	var sum float64
	for _, r := range report.Results {
		sum += r.Score
	}
	stats.AverageSimilarity = sum / float64(len(report.Results))

	if len(report.Findings) == 0 {
		return 0, stats
	}

	var badness float64
	for _, f := range report.Findings {
		badness += 1 - f.Score
	}
	return semanticWeight * badness / float64(len(report.Results)), stats
}

func findNodes(root *sqltree.Node, kind string) []*sqltree.Node {
	var nodes []*sqltree.Node
	var walk func(n *sqltree.Node)
	walk = func(n *sqltree.Node) {
		if n == nil {
			return
		}
		if n.Kind() == kind {
			nodes = append(nodes, n)
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return nodes
}

func cteName(cte *sqltree.Node) string {
	for i := uint(0); i < cte.NamedChildCount(); i++ {
		child := cte.NamedChild(i)
		if child != nil && child.Kind() == "identifier" {
			return child.Content()
		}
	}
	return "cte"
}
