package suggest

import (
	"fmt"
	"sync"
)

type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
)

// Registry holds configured suggesters and routes by provider type. The
// first registered provider becomes the default.
type Registry struct {
	mu sync.RWMutex

	providers map[ProviderType]Suggester
	default_  ProviderType
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[ProviderType]Suggester)}
}

func (r *Registry) Register(providerType ProviderType, s Suggester) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.providers[providerType] = s
	if len(r.providers) == 1 {
		r.default_ = providerType
	}
}

func (r *Registry) RegisterAnthropic(config Config) error {
	s, err := NewAnthropicSuggester(config)
	if err != nil {
		return err
	}
	r.Register(ProviderAnthropic, s)
	return nil
}

func (r *Registry) RegisterOpenAI(config Config) error {
	s, err := NewOpenAISuggester(config)
	if err != nil {
		return err
	}
	r.Register(ProviderOpenAI, s)
	return nil
}

func (r *Registry) Get(providerType ProviderType) (Suggester, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.providers[providerType]
	if !ok {
		return nil, fmt.Errorf("suggestion provider not registered: %s", providerType)
	}
	return s, nil
}

func (r *Registry) Default() (Suggester, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.default_ == "" {
		return nil, fmt.Errorf("no suggestion providers registered")
	}
	return r.providers[r.default_], nil
}
