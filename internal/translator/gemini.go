package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domerrors "github.com/garyellow/varname-slackbot/internal/errors"
	"google.golang.org/genai"
)

const (
	providerGemini     = "gemini"
	defaultGeminiModel = "gemini-2.5-flash"
)

// GeminiProvider translates through the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini-backed translator.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	return newGeminiProvider(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model)
}

func newGeminiProvider(ctx context.Context, cc *genai.ClientConfig, model string) (*GeminiProvider, error) {
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

// Provider returns "gemini".
func (p *GeminiProvider) Provider() string {
	return providerGemini
}

// Translate asks the model for an identifier phrase.
func (p *GeminiProvider) Translate(ctx context.Context, text string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.2),
		MaxOutputTokens: 64,
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(translationPrompt(text)), config)
	if err != nil {
		return "", domerrors.NewTranslationError(providerGemini, 0, fmt.Errorf("generate content failed: %w", err))
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", domerrors.NewTranslationError(providerGemini, 0, errors.New("no candidates in response"))
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			out.WriteString(part.Text)
		}
	}
	result := cleanCompletion(out.String())
	if result == "" {
		return "", domerrors.NewTranslationError(providerGemini, 0, errors.New("empty completion"))
	}
	return result, nil
}
