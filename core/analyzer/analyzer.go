// Package analyzer drives the alias-quality pipeline: extract elements from
// a statement, embed alias and code for each, score the pair, and flag the
// elements whose score falls under the caller's threshold.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/adalundhe/nameguard/core/embed"
	"github.com/adalundhe/nameguard/core/extract"
	"github.com/adalundhe/nameguard/core/similarity"
)

// ElementSource yields the aliased elements of a statement in source order.
// *extract.Extractor satisfies it; tests substitute fixed element lists.
type ElementSource interface {
	Extract(sql string) ([]extract.Element, error)
}

// FailurePolicy controls how element-level embedding failures propagate.
type FailurePolicy int

const (
	// PolicyFailFast aborts the call on the first element failure, with the
	// offending element's identity attached. This is the default.
	PolicyFailFast FailurePolicy = iota
	// PolicySkip drops the failing element, records it on the report, and
	// continues with the rest.
	PolicySkip
)

type Config struct {
	Source   ElementSource
	Embedder embed.Embedder
	Logger   *slog.Logger
	Policy   FailurePolicy
	// Workers bounds parallel embedding across elements. Zero or one keeps
	// the baseline synchronous execution.
	Workers int
}

// Analyzer is stateless across calls; the same input always produces the
// same findings for a fixed embedding model.
type Analyzer struct {
	source   ElementSource
	embedder embed.Embedder
	logger   *slog.Logger
	policy   FailurePolicy
	workers  int
}

func New(cfg Config) (*Analyzer, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("analyzer: element source is required")
	}
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("analyzer: embedder is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Analyzer{
		source:   cfg.Source,
		embedder: cfg.Embedder,
		logger:   logger,
		policy:   cfg.Policy,
		workers:  workers,
	}, nil
}

// Analyze returns the findings for one statement, source order preserved,
// possibly empty when every alias scores at or above the threshold.
func (a *Analyzer) Analyze(ctx context.Context, sql string, threshold float64) ([]Finding, error) {
	report, err := a.AnalyzeReport(ctx, sql, threshold)
	if err != nil {
		return nil, err
	}
	return report.Findings, nil
}

// AnalyzeReport runs the full pipeline and returns every score alongside
// the findings and any skipped elements.
func (a *Analyzer) AnalyzeReport(ctx context.Context, sql string, threshold float64) (*Report, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, &InvalidThresholdError{Value: threshold}
	}

	elements, err := a.source.Extract(sql)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Threshold: threshold,
		Results:   make([]Result, 0, len(elements)),
	}

	scores, errs := a.scoreAll(ctx, elements)
	for i, elem := range elements {
		if errs[i] != nil {
			if a.policy == PolicyFailFast {
				return nil, errs[i]
			}
			a.logger.Warn("skipping element",
				"element", elem.Ref(),
				"cause", errs[i].Error())
			report.Skipped = append(report.Skipped, SkippedElement{
				Ref:   elem.Ref(),
				Cause: errs[i].Error(),
			})
			continue
		}

		score := scores[i]
		report.Results = append(report.Results, Result{Element: elem, Score: score})
		if score < threshold {
			finding := newFinding(elem, score, threshold)
			a.logger.Debug("alias flagged",
				"alias", elem.Alias,
				"type", elem.Type.String(),
				"score", score,
				"severity", string(finding.Severity))
			report.Findings = append(report.Findings, finding)
		}
	}

	return report, nil
}

// scoreAll scores every element independently. Results and errors are
// indexed by element position so source order survives parallel execution.
func (a *Analyzer) scoreAll(ctx context.Context, elements []extract.Element) ([]float64, []error) {
	scores := make([]float64, len(elements))
	errs := make([]error, len(elements))

	if a.workers <= 1 || len(elements) <= 1 {
		for i, elem := range elements {
			scores[i], errs[i] = a.scoreElement(ctx, elem)
		}
		return scores, errs
	}

	sem := make(chan struct{}, a.workers)
	var wg sync.WaitGroup
	for i, elem := range elements {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			scores[i], errs[i] = a.scoreElement(ctx, elem)
		}()
	}
	wg.Wait()

	return scores, errs
}

func (a *Analyzer) scoreElement(ctx context.Context, elem extract.Element) (float64, error) {
	aliasVec, err := a.embedder.Embed(ctx, elem.Alias)
	if err != nil {
		return 0, &ElementError{Element: elem, Stage: StageEmbedAlias, Err: err}
	}

	codeVec, err := a.embedder.Embed(ctx, elem.Code)
	if err != nil {
		return 0, &ElementError{Element: elem, Stage: StageEmbedCode, Err: err}
	}

	score, err := similarity.Score(aliasVec, codeVec)
	if err != nil {
		return 0, &ElementError{Element: elem, Stage: StageScore, Err: err}
	}
	return score, nil
}
