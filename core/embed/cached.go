package embed

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedEmbedder memoizes embeddings by input text in a fixed-size LRU. The
// baseline pipeline does not cache; this decorator is layered explicitly by
// callers that re-analyze overlapping statements. Cached vectors are copied
// on the way out so callers cannot mutate shared state.
type CachedEmbedder struct {
	inner Embedder
	cache *lru.Cache[string, []float32]
}

const DefaultCacheSize = 4096

func NewCachedEmbedder(inner Embedder, size int) (*CachedEmbedder, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &CachedEmbedder{inner: inner, cache: cache}, nil
}

func (c *CachedEmbedder) Dimension() int {
	return c.inner.Dimension()
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := validateInput(text); err != nil {
		return nil, err
	}

	if vec, ok := c.cache.Get(text); ok {
		return copyVec(vec), nil
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, copyVec(vec))
	return vec, nil
}

func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateInputs(texts); err != nil {
		return nil, err
	}

	results := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if vec, ok := c.cache.Get(text); ok {
			results[i] = copyVec(vec)
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return results, nil
	}

	fetched, err := c.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, vec := range fetched {
		c.cache.Add(missing[j], copyVec(vec))
		results[missingIdx[j]] = vec
	}
	return results, nil
}

// Len reports the number of cached entries.
func (c *CachedEmbedder) Len() int {
	return c.cache.Len()
}

func copyVec(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
