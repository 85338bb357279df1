package similarity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Score Tests
// =============================================================================

func TestScore_IdenticalVectors(t *testing.T) {
	vec := []float32{0.3, -0.2, 0.9, 0.1}

	score, err := Score(vec, vec)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-6)
}

func TestScore_OrthogonalVectors(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{0, 1, 0}

	score, err := Score(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, score, 1e-6)
}

func TestScore_NegativeCosineClampsToZero(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{-1, 0}

	score, err := Score(a, b)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestScore_StaysWithinUnitInterval(t *testing.T) {
	cases := [][2][]float32{
		{{0.5, 0.5}, {0.5, 0.5}},
		{{1, 2, 3}, {3, 2, 1}},
		{{-1, -2}, {-2, -1}},
		{{0.001, 0.002}, {100, 200}},
	}

	for _, pair := range cases {
		score, err := Score(pair[0], pair[1])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestScore_ZeroMagnitudeVector(t *testing.T) {
	a := []float32{0, 0, 0}
	b := []float32{1, 2, 3}

	score, err := Score(a, b)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestScore_DimensionMismatch(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{1, 2}

	_, err := Score(a, b)
	require.Error(t, err)

	var mismatch *DimensionMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 3, mismatch.LenA)
	assert.Equal(t, 2, mismatch.LenB)
}

func TestScore_EmptyVectors(t *testing.T) {
	_, err := Score(nil, nil)
	require.Error(t, err)

	var mismatch *DimensionMismatchError
	assert.True(t, errors.As(err, &mismatch))
}

func TestScore_Symmetric(t *testing.T) {
	a := []float32{0.1, 0.7, -0.3, 0.4}
	b := []float32{0.5, 0.2, 0.6, -0.1}

	ab, err := Score(a, b)
	require.NoError(t, err)
	ba, err := Score(b, a)
	require.NoError(t, err)

	assert.InDelta(t, ab, ba, 1e-9)
}
