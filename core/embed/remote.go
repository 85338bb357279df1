package embed

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// RemoteEmbedder calls an OpenAI-compatible embeddings endpoint. It is an
// alternative to the local ONNX model for hosts without onnxruntime; the
// determinism guarantee then depends on the remote service pinning its model
// version.
type RemoteEmbedder struct {
	client    *openai.Client
	model     string
	dimension int
}

type RemoteConfig struct {
	APIKey  string
	BaseURL string
	// Model defaults to text-embedding-3-small.
	Model string
	// Dimension must match what the remote model produces.
	Dimension int
	Timeout   time.Duration
}

const (
	remoteDefaultModel     = string(openai.EmbeddingModelTextEmbedding3Small)
	remoteDefaultDimension = 1536
	remoteDefaultTimeout   = 30 * time.Second
)

func NewRemoteEmbedder(cfg RemoteConfig) (*RemoteEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("remote embedder: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = remoteDefaultModel
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = remoteDefaultDimension
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = remoteDefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)
	return &RemoteEmbedder{
		client:    &client,
		model:     cfg.Model,
		dimension: cfg.Dimension,
	}, nil
}

func (r *RemoteEmbedder) Dimension() int {
	return r.dimension
}

func (r *RemoteEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	results, err := r.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

func (r *RemoteEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateInputs(texts); err != nil {
		return nil, err
	}

	resp, err := r.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(r.model),
	})
	if err != nil {
		return nil, fmt.Errorf("remote embedding with %s: %w", r.model, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("remote embedding with %s: got %d vectors for %d inputs",
			r.model, len(resp.Data), len(texts))
	}

	results := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		vec := make([]float32, len(item.Embedding))
		for j, v := range item.Embedding {
			vec[j] = float32(v)
		}
		results[i] = vec
	}
	return results, nil
}
