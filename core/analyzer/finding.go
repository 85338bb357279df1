package analyzer

import (
	"fmt"
	"strings"

	"github.com/adalundhe/nameguard/core/extract"
)

// Severity bands a finding by how badly the alias misses its code.
type Severity string

const (
	// SeverityPoor marks scores below PoorScoreCeiling.
	SeverityPoor Severity = "poor"
	// SeverityReview marks scores in [PoorScoreCeiling, threshold).
	SeverityReview Severity = "review"
)

// PoorScoreCeiling separates the poor band from the review band. It is a
// property of the score scale, not of the caller's threshold.
const PoorScoreCeiling = 0.4

// DefaultThreshold is the cutoff used when the caller does not supply one.
const DefaultThreshold = 0.7

// Result pairs an element with its similarity score. Every extracted
// element produces exactly one Result.
type Result struct {
	Element extract.Element `json:"element"`
	Score   float64         `json:"score"`
}

// Finding is a Result that fell below the caller's threshold, annotated
// with a verdict. Findings are immutable values carrying no reference to
// pipeline state.
type Finding struct {
	Alias         string              `json:"alias"`
	Code          string              `json:"code"`
	Type          extract.ElementType `json:"element_type"`
	ScopePath     []string            `json:"scope_path,omitempty"`
	Score         float64             `json:"score"`
	Severity      Severity            `json:"severity"`
	Message       string              `json:"message"`
	ThresholdUsed float64             `json:"threshold_used"`
}

// SkippedElement records an element dropped under PolicySkip. Skips are
// never silent; identity and cause always surface on the report.
type SkippedElement struct {
	Ref   string `json:"ref"`
	Cause string `json:"cause"`
}

// Report is the full outcome of one analysis run: all scores, the findings
// that crossed the threshold, and any skipped elements.
type Report struct {
	RunID     string           `json:"run_id"`
	Threshold float64          `json:"threshold"`
	Results   []Result         `json:"results"`
	Findings  []Finding        `json:"findings"`
	Skipped   []SkippedElement `json:"skipped,omitempty"`
}

func severityFor(score float64) Severity {
	if score < PoorScoreCeiling {
		return SeverityPoor
	}
	return SeverityReview
}

func newFinding(elem extract.Element, score, threshold float64) Finding {
	return Finding{
		Alias:         elem.Alias,
		Code:          elem.Code,
		Type:          elem.Type,
		ScopePath:     elem.ScopePath,
		Score:         score,
		Severity:      severityFor(score),
		Message:       findingMessage(elem, score),
		ThresholdUsed: threshold,
	}
}

func findingMessage(elem extract.Element, score float64) string {
	kind := strings.ToLower(strings.ReplaceAll(elem.Type.String(), "_", " "))
	return fmt.Sprintf("alias %q appears to be a poor name for the %s it defines (similarity=%.3f): %s",
		elem.Alias, kind, score, summarize(elem.Code, 80))
}

func summarize(code string, limit int) string {
	collapsed := strings.Join(strings.Fields(code), " ")
	if len(collapsed) <= limit {
		return collapsed
	}
	return collapsed[:limit] + "…"
}
