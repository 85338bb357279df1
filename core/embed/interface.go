// Package embed maps alias and code text to fixed-length vectors. The model
// is an injected dependency constructed at the composition root; nothing in
// this package holds package-level state.
package embed

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Embedder is the single contract the analysis pipeline depends on. For a
// fixed model and input text the output must be bit-for-bit reproducible.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// ErrEmptyInput rejects empty or whitespace-only text before it reaches a
// model. Reaching it from the pipeline indicates an extraction bug.
var ErrEmptyInput = errors.New("embedding input is empty or whitespace-only")

// ModelLoadError reports which model failed to load. There is no fallback
// model; the caller is always told explicitly what was unavailable.
type ModelLoadError struct {
	Model string
	Repo  string
	Err   error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("embedding model %s (%s) failed to load: %v", e.Model, e.Repo, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

func validateInput(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}
	return nil
}

func validateInputs(texts []string) error {
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("input %d: %w", i, ErrEmptyInput)
		}
	}
	return nil
}
