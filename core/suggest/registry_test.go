package suggest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/nameguard/core/extract"
)

type staticSuggester struct {
	name string
}

func (s *staticSuggester) Suggest(context.Context, extract.ElementType, string) (*Suggestion, error) {
	return &Suggestion{Candidates: []string{s.name}}, nil
}

// =============================================================================
// Registry Tests
// =============================================================================

func TestRegistry_FirstRegisteredIsDefault(t *testing.T) {
	registry := NewRegistry()
	registry.Register(ProviderAnthropic, &staticSuggester{name: "a"})
	registry.Register(ProviderOpenAI, &staticSuggester{name: "b"})

	s, err := registry.Default()
	require.NoError(t, err)

	suggestion, err := s.Suggest(context.Background(), extract.CTE, "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, suggestion.Candidates)
}

func TestRegistry_GetByProvider(t *testing.T) {
	registry := NewRegistry()
	registry.Register(ProviderOpenAI, &staticSuggester{name: "b"})

	s, err := registry.Get(ProviderOpenAI)
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = registry.Get(ProviderAnthropic)
	assert.Error(t, err)
}

func TestRegistry_EmptyHasNoDefault(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Default()
	assert.Error(t, err)
}

// =============================================================================
// Provider Config Tests
// =============================================================================

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = "sk-test"
	assert.NoError(t, cfg.Validate())

	missing := DefaultConfig()
	assert.Error(t, missing.Validate())

	hot := DefaultConfig()
	hot.APIKey = "sk-test"
	hot.Temperature = 3
	assert.Error(t, hot.Validate())
}

func TestNewAnthropicSuggester_RequiresKey(t *testing.T) {
	_, err := NewAnthropicSuggester(Config{})
	assert.Error(t, err)
}

func TestNewOpenAISuggester_DefaultsModel(t *testing.T) {
	s, err := NewOpenAISuggester(Config{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, defaultOpenAIModel, s.config.Model)
}
