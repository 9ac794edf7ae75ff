// Package translator turns free-text input into a short English phrase
// through one of several backends. Every failure is returned as a
// *errors.TranslationError.
package translator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/garyellow/varname-slackbot/internal/config"
	domerrors "github.com/garyellow/varname-slackbot/internal/errors"
)

// Translator translates text. Implementations make at most one attempt.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
	Provider() string
}

// MetricsRecorder receives one observation per translation call.
type MetricsRecorder interface {
	RecordTranslation(provider, status string, duration float64)
}

// New builds the translator selected by cfg.Provider, wrapped with the
// per-call timeout and metrics.
func New(ctx context.Context, cfg config.TranslatorConfig, metrics MetricsRecorder) (Translator, error) {
	var (
		backend Translator
		err     error
	)
	switch cfg.Provider {
	case config.ProviderAnalyzer:
		backend = NewAnalyzerClient(cfg.AnalyzerHost, cfg.Timeout)
	case config.ProviderOpenAI:
		backend = NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	case config.ProviderGemini:
		backend, err = NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown translator provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(backend, cfg.Timeout, metrics), nil
}

// Instrument bounds each call by timeout, records metrics and normalizes
// errors so callers only see *errors.TranslationError.
func Instrument(next Translator, timeout time.Duration, metrics MetricsRecorder) Translator {
	return &instrumented{next: next, timeout: timeout, metrics: metrics}
}

type instrumented struct {
	next    Translator
	timeout time.Duration
	metrics MetricsRecorder
}

func (t *instrumented) Provider() string {
	return t.next.Provider()
}

func (t *instrumented) Translate(ctx context.Context, text string) (string, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := t.next.Translate(ctx, text)
	duration := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
		var te *domerrors.TranslationError
		if !errors.As(err, &te) {
			err = domerrors.NewTranslationError(t.next.Provider(), 0, err)
		}
		slog.WarnContext(ctx, "translation failed",
			"provider", t.next.Provider(),
			"input_length", len(text),
			"duration_ms", duration.Milliseconds(),
			"error", err)
	} else {
		slog.DebugContext(ctx, "translation completed",
			"provider", t.next.Provider(),
			"duration_ms", duration.Milliseconds())
	}
	if t.metrics != nil {
		t.metrics.RecordTranslation(t.next.Provider(), status, duration.Seconds())
	}
	return result, err
}
