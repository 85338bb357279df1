package embed

// ModelSpec describes an ONNX embedding model hosted on HuggingFace. The
// dimension is model-defined; callers never choose it.
type ModelSpec struct {
	Name      string
	HFRepo    string
	Dimension int
}

// DefaultModel is the code-aware model the original alias analysis was tuned
// against.
const DefaultModel = "jina-embeddings-v2-base-code"

// MiniLMModel is a small general-purpose alternative for constrained hosts.
const MiniLMModel = "all-MiniLM-L6-v2"

var modelRegistry = map[string]ModelSpec{
	DefaultModel: {
		Name:      DefaultModel,
		HFRepo:    "jinaai/jina-embeddings-v2-base-code",
		Dimension: 768,
	},
	MiniLMModel: {
		Name:      MiniLMModel,
		HFRepo:    "KnightsAnalytics/all-MiniLM-L6-v2",
		Dimension: 384,
	},
}

// LookupModel resolves a model name to its spec. Unknown names resolve to
// false, never to a substitute model.
func LookupModel(name string) (ModelSpec, bool) {
	spec, ok := modelRegistry[name]
	return spec, ok
}

// Models lists the registered model names.
func Models() []string {
	names := make([]string, 0, len(modelRegistry))
	for name := range modelRegistry {
		names = append(names, name)
	}
	return names
}
