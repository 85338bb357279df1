// Package similarity scores the semantic closeness of two embeddings.
//
// The contract is raw cosine similarity with negative values clamped to 0,
// giving a score in [0, 1]. Clamping (rather than linearly rescaling the
// [-1, 1] range) keeps threshold semantics aligned with how thresholds over
// raw cosine similarity are conventionally chosen; negative similarities are
// rare for short natural-language-like SQL text. This choice is load-bearing
// for threshold interpretation downstream and must not change silently.
package similarity

import (
	"fmt"
	"math"

	"github.com/viterin/vek/vek32"
)

// DimensionMismatchError means the embedder produced inconsistent vector
// sizes across calls. It is an internal invariant violation and is never
// silently corrected.
type DimensionMismatchError struct {
	LenA int
	LenB int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: %d vs %d", e.LenA, e.LenB)
}

// Score returns the clamped cosine similarity of a and b in [0, 1].
// Zero-magnitude vectors score 0.
func Score(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, &DimensionMismatchError{LenA: len(a), LenB: len(b)}
	}
	if len(a) == 0 {
		return 0, &DimensionMismatchError{LenA: 0, LenB: 0}
	}

	magA := math.Sqrt(float64(vek32.Dot(a, a)))
	magB := math.Sqrt(float64(vek32.Dot(b, b)))
	if magA == 0 || magB == 0 {
		return 0, nil
	}

	cos := float64(vek32.Dot(a, b)) / (magA * magB)
	return clamp(cos), nil
}

func clamp(cos float64) float64 {
	if cos < 0 {
		return 0
	}
	// Floating point can nudge identical vectors past 1.
	if cos > 1 {
		return 1
	}
	return cos
}
