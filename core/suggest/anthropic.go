package suggest

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/adalundhe/nameguard/core/extract"
)

const defaultAnthropicModel = "claude-haiku-4-5-20251001"

// AnthropicSuggester asks a Claude model for replacement alias names.
type AnthropicSuggester struct {
	client *anthropic.Client
	config Config
}

func NewAnthropicSuggester(config Config) (*AnthropicSuggester, error) {
	if config.Model == "" {
		config.Model = defaultAnthropicModel
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultConfig().MaxTokens
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(config.Timeout))
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicSuggester{client: &client, config: config}, nil
}

func (s *AnthropicSuggester) Name() string {
	return string(ProviderAnthropic)
}

func (s *AnthropicSuggester) Suggest(ctx context.Context, elemType extract.ElementType, code string) (*Suggestion, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: int64(s.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(elemType, code))),
		},
	}
	if s.config.Temperature > 0 {
		params.Temperature = anthropic.Float(s.config.Temperature)
	}

	msg, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic suggest: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			text += b.Text
		}
	}

	candidates, err := parseCandidates(text)
	if err != nil {
		return nil, fmt.Errorf("anthropic suggest: %w", err)
	}
	return &Suggestion{Candidates: candidates, Raw: text}, nil
}
