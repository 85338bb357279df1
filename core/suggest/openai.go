package suggest

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/adalundhe/nameguard/core/extract"
)

const defaultOpenAIModel = "gpt-5.1-mini"

// OpenAISuggester asks an OpenAI chat model for replacement alias names.
type OpenAISuggester struct {
	client *openai.Client
	config Config
}

func NewOpenAISuggester(config Config) (*OpenAISuggester, error) {
	if config.Model == "" {
		config.Model = defaultOpenAIModel
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

	client := openai.NewClient(opts...)
	return &OpenAISuggester{client: &client, config: config}, nil
}

func (s *OpenAISuggester) Name() string {
	return string(ProviderOpenAI)
}

func (s *OpenAISuggester) Suggest(ctx context.Context, elemType extract.ElementType, code string) (*Suggestion, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buildPrompt(elemType, code)),
		},
		MaxCompletionTokens: openai.Int(int64(s.config.MaxTokens)),
	}
	if s.config.Temperature > 0 {
		params.Temperature = openai.Float(s.config.Temperature)
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai suggest: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai suggest: empty response")
	}

	text := resp.Choices[0].Message.Content
	candidates, err := parseCandidates(text)
	if err != nil {
		return nil, fmt.Errorf("openai suggest: %w", err)
	}
	return &Suggestion{Candidates: candidates, Raw: text}, nil
}
