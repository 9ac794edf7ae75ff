package translator

import (
	"context"
	"errors"
	"fmt"

	domerrors "github.com/garyellow/varname-slackbot/internal/errors"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	providerOpenAI     = "openai"
	defaultOpenAIModel = "gpt-4o-mini"
)

// OpenAIProvider translates through any OpenAI-compatible chat completions API.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates a provider. An empty baseURL uses the SDK default.
// SDK retries are disabled so each call is a single attempt.
func NewOpenAIProvider(apiKey, baseURL, model string) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Provider returns "openai".
func (p *OpenAIProvider) Provider() string {
	return providerOpenAI
}

// Translate asks the model for an identifier phrase.
func (p *OpenAIProvider) Translate(ctx context.Context, text string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(translationPrompt(text)),
		},
		Temperature: openai.Float(0.2),
		MaxTokens:   openai.Int(64),
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		status := 0
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return "", domerrors.NewTranslationError(providerOpenAI, status, fmt.Errorf("chat completion failed: %w", err))
	}

	if len(resp.Choices) == 0 {
		return "", domerrors.NewTranslationError(providerOpenAI, 0, errors.New("no choices in response"))
	}
	result := cleanCompletion(resp.Choices[0].Message.Content)
	if result == "" {
		return "", domerrors.NewTranslationError(providerOpenAI, 0, errors.New("empty completion"))
	}
	return result, nil
}
