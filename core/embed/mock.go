package embed

import (
	"context"
	"hash/fnv"
	"math"
)

// MockEmbedder produces deterministic pseudo-random unit vectors from input
// text. It satisfies the reproducibility contract without any model, which
// makes it the default test double for the pipeline.
type MockEmbedder struct {
	dimension int
}

func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

func (m *MockEmbedder) Dimension() int {
	return m.dimension
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if err := validateInput(text); err != nil {
		return nil, err
	}
	return deterministicEmbed(text, m.dimension), nil
}

func (m *MockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if err := validateInputs(texts); err != nil {
		return nil, err
	}
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = deterministicEmbed(text, m.dimension)
	}
	return results, nil
}

func deterministicEmbed(text string, dimension int) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64()

	vec := make([]float32, dimension)
	var norm float64
	for i := range vec {
		state = splitmix64(state)
		// Map to [-1, 1).
		v := float64(int64(state>>11))/float64(1<<52) - 1.0
		vec[i] = float32(v)
		norm += v * v
	}

	if norm > 0 {
		inv := float32(1.0 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
