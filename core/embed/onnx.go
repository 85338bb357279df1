package embed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	"github.com/knights-analytics/hugot/pipelines"
)

// ONNXEmbedder runs a feature-extraction pipeline over a locally cached ONNX
// model. The model is loaded lazily on first use, guarded against concurrent
// initialization, and retained for the lifetime of the embedder.
type ONNXEmbedder struct {
	spec           ModelSpec
	cacheDir       string
	modelPath      string
	ortLibraryPath string

	mu       sync.RWMutex
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
	loaded   bool
}

type ONNXConfig struct {
	// Model is a name registered in this package; empty selects DefaultModel.
	Model string
	// CacheDir holds downloaded model weights; defaults under the user home.
	CacheDir string
	// OrtLibraryPath points at libonnxruntime when it is not on the loader path.
	OrtLibraryPath string
}

func NewONNXEmbedder(cfg ONNXConfig) (*ONNXEmbedder, error) {
	name := cfg.Model
	if name == "" {
		name = DefaultModel
	}
	spec, ok := LookupModel(name)
	if !ok {
		return nil, fmt.Errorf("unknown embedding model %q (known: %v)", name, Models())
	}

	if cfg.CacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		cfg.CacheDir = filepath.Join(home, ".nameguard", "models")
	}
	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create model cache dir: %w", err)
	}

	return &ONNXEmbedder{
		spec:           spec,
		cacheDir:       cfg.CacheDir,
		modelPath:      filepath.Join(cfg.CacheDir, spec.Name),
		ortLibraryPath: cfg.OrtLibraryPath,
	}, nil
}

func (o *ONNXEmbedder) Dimension() int {
	return o.spec.Dimension
}

func (o *ONNXEmbedder) ModelSpec() ModelSpec {
	return o.spec
}

func (o *ONNXEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := validateInput(text); err != nil {
		return nil, err
	}

	results, err := o.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("model %s returned no embedding", o.spec.Name)
	}
	return results[0], nil
}

func (o *ONNXEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateInputs(texts); err != nil {
		return nil, err
	}
	return o.embed(ctx, texts)
}

func (o *ONNXEmbedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := o.EnsureModel(ctx); err != nil {
		return nil, err
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	output, err := o.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("inference with %s: %w", o.spec.Name, err)
	}
	return output.Embeddings, nil
}

// EnsureModel downloads and loads the model if that has not happened yet.
// Safe under concurrent first use; initialization runs at most once.
func (o *ONNXEmbedder) EnsureModel(ctx context.Context) error {
	o.mu.RLock()
	loaded := o.loaded
	o.mu.RUnlock()
	if loaded {
		return nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.loaded {
		return nil
	}

	if _, err := os.Stat(o.modelPath); os.IsNotExist(err) {
		if err := o.downloadModel(ctx); err != nil {
			return &ModelLoadError{Model: o.spec.Name, Repo: o.spec.HFRepo, Err: err}
		}
	}

	if err := o.loadModel(); err != nil {
		return &ModelLoadError{Model: o.spec.Name, Repo: o.spec.HFRepo, Err: err}
	}

	o.loaded = true
	return nil
}

func (o *ONNXEmbedder) downloadModel(_ context.Context) error {
	downloadOpts := hugot.NewDownloadOptions()
	modelPath, err := hugot.DownloadModel(o.spec.HFRepo, o.cacheDir, downloadOpts)
	if err != nil {
		return fmt.Errorf("download from HuggingFace: %w", err)
	}
	o.modelPath = modelPath
	return nil
}

func (o *ONNXEmbedder) loadModel() error {
	sessionOpts := []options.WithOption{
		options.WithIntraOpNumThreads(runtime.NumCPU()),
	}
	if o.ortLibraryPath != "" {
		sessionOpts = append(sessionOpts, options.WithOnnxLibraryPath(o.ortLibraryPath))
	}

	session, err := hugot.NewORTSession(sessionOpts...)
	if err != nil {
		return fmt.Errorf("create ORT session: %w", err)
	}

	pipelineConfig := hugot.FeatureExtractionConfig{
		ModelPath: o.modelPath,
		Name:      o.spec.Name,
	}

	pipeline, err := hugot.NewPipeline(session, pipelineConfig)
	if err != nil {
		session.Destroy()
		return fmt.Errorf("create pipeline: %w", err)
	}

	o.session = session
	o.pipeline = pipeline
	return nil
}

func (o *ONNXEmbedder) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session != nil {
		o.session.Destroy()
		o.session = nil
	}
	o.pipeline = nil
	o.loaded = false
	return nil
}
