package embed

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder wraps the mock and counts model invocations.
type countingEmbedder struct {
	*MockEmbedder
	calls atomic.Int64
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls.Add(1)
	return c.MockEmbedder.Embed(ctx, text)
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls.Add(int64(len(texts)))
	return c.MockEmbedder.EmbedBatch(ctx, texts)
}

// =============================================================================
// Cached Embedder Tests
// =============================================================================

func TestCachedEmbedder_HitSkipsInner(t *testing.T) {
	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(32)}
	cached, err := NewCachedEmbedder(inner, 16)
	require.NoError(t, err)

	first, err := cached.Embed(context.Background(), "daily_totals")
	require.NoError(t, err)
	second, err := cached.Embed(context.Background(), "daily_totals")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), inner.calls.Load())
	assert.Equal(t, 1, cached.Len())
}

func TestCachedEmbedder_ReturnsCopies(t *testing.T) {
	cached, err := NewCachedEmbedder(NewMockEmbedder(8), 16)
	require.NoError(t, err)

	first, err := cached.Embed(context.Background(), "orders")
	require.NoError(t, err)
	first[0] = 999

	second, err := cached.Embed(context.Background(), "orders")
	require.NoError(t, err)
	assert.NotEqual(t, float32(999), second[0])
}

func TestCachedEmbedder_BatchFillsOnlyMisses(t *testing.T) {
	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(16)}
	cached, err := NewCachedEmbedder(inner, 16)
	require.NoError(t, err)

	_, err = cached.Embed(context.Background(), "a")
	require.NoError(t, err)

	vecs, err := cached.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	// One call for "a", two for the batch misses.
	assert.Equal(t, int64(3), inner.calls.Load())
	assert.Equal(t, 3, cached.Len())
}

func TestCachedEmbedder_DefaultSize(t *testing.T) {
	cached, err := NewCachedEmbedder(NewMockEmbedder(8), 0)
	require.NoError(t, err)
	assert.Equal(t, 8, cached.Dimension())
}

func TestCachedEmbedder_RejectsEmptyInput(t *testing.T) {
	cached, err := NewCachedEmbedder(NewMockEmbedder(8), 4)
	require.NoError(t, err)

	_, err = cached.Embed(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)
}
