// Package config provides application configuration management.
// It loads settings from environment variables (and an optional .env file)
// and validates them before the server starts.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Translator provider names.
const (
	ProviderAnalyzer = "analyzer"
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
)

// DefaultCommand is the slash command the bot answers.
const DefaultCommand = "/변수명"

// Config holds all application configuration
type Config struct {
	// Slack Configuration
	SlackAPIKey        string
	SlackChannel       string // Channel that receives translation results
	SlackSigningSecret string // Empty disables request signature verification
	SlackCommand       string

	// Translation Configuration
	Translator TranslatorConfig

	// Flow Configuration
	FlowTimeout time.Duration // Upper bound for one asynchronous submit or vote flow

	// Storage Configuration
	DatabaseURL string // PostgreSQL DSN; empty selects SQLite under DataDir
	DataDir     string

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Better Stack Configuration
	BetterStackToken    string
	BetterStackEndpoint string

	// Sentry Configuration
	SentryToken       string
	SentryHost        string
	SentryEnvironment string
	SentrySampleRate  float64

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)
}

// TranslatorConfig selects and configures the translation backend.
type TranslatorConfig struct {
	Provider      string // analyzer, openai or gemini
	AnalyzerHost  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	GeminiAPIKey  string
	GeminiModel   string
	Timeout       time.Duration
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		SlackAPIKey:        getEnv(EnvSlackAPIKey, ""),
		SlackChannel:       getEnv(EnvSlackChannel, ""),
		SlackSigningSecret: getEnv(EnvSlackSigningSecret, ""),
		SlackCommand:       getEnv(EnvSlackCommand, DefaultCommand),

		Translator: TranslatorConfig{
			Provider:      strings.ToLower(getEnv(EnvTranslatorProvider, ProviderAnalyzer)),
			AnalyzerHost:  strings.TrimRight(getEnv(EnvAnalyzerHost, ""), "/"),
			OpenAIAPIKey:  getEnv(EnvOpenAIAPIKey, ""),
			OpenAIBaseURL: getEnv(EnvOpenAIBaseURL, ""),
			OpenAIModel:   getEnv(EnvOpenAIModel, ""),
			GeminiAPIKey:  getEnv(EnvGeminiAPIKey, ""),
			GeminiModel:   getEnv(EnvGeminiModel, ""),
			Timeout:       getDurationEnv(EnvTranslateTimeout, TranslateRequest),
		},

		FlowTimeout: getDurationEnv(EnvFlowTimeout, FlowProcessing),

		DatabaseURL: getEnv(EnvDatabaseURL, ""),
		DataDir:     getEnv(EnvDataDir, getDefaultDataDir()),

		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		SentryToken:       getEnv(EnvSentryToken, ""),
		SentryHost:        getEnv(EnvSentryHost, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.SlackAPIKey == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvSlackAPIKey))
	}
	if c.SlackChannel == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvSlackChannel))
	}
	if !strings.HasPrefix(c.SlackCommand, "/") {
		errs = append(errs, fmt.Errorf("%s must start with '/', got %q", EnvSlackCommand, c.SlackCommand))
	}
	if c.Port == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvPort))
	}
	if c.DatabaseURL == "" && c.DataDir == "" {
		errs = append(errs, fmt.Errorf("%s is required when %s is empty", EnvDataDir, EnvDatabaseURL))
	}
	if c.FlowTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvFlowTimeout, c.FlowTimeout))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvShutdownTimeout, c.ShutdownTimeout))
	}
	if c.SentryToken != "" && c.SentryHost == "" {
		errs = append(errs, fmt.Errorf("%s is required when %s is set", EnvSentryHost, EnvSentryToken))
	}
	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", EnvSentrySampleRate, c.SentrySampleRate))
	}
	if err := c.Translator.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("translator config: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks the provider-specific settings.
func (t *TranslatorConfig) Validate() error {
	var errs []error

	switch t.Provider {
	case ProviderAnalyzer:
		if t.AnalyzerHost == "" {
			errs = append(errs, fmt.Errorf("%s is required for provider %q", EnvAnalyzerHost, t.Provider))
		}
	case ProviderOpenAI:
		if t.OpenAIAPIKey == "" {
			errs = append(errs, fmt.Errorf("%s is required for provider %q", EnvOpenAIAPIKey, t.Provider))
		}
	case ProviderGemini:
		if t.GeminiAPIKey == "" {
			errs = append(errs, fmt.Errorf("%s is required for provider %q", EnvGeminiAPIKey, t.Provider))
		}
	default:
		errs = append(errs, fmt.Errorf("%s must be one of analyzer, openai, gemini; got %q", EnvTranslatorProvider, t.Provider))
	}
	if t.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvTranslateTimeout, t.Timeout))
	}

	return errors.Join(errs...)
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getDefaultDataDir returns platform-specific default data directory
func getDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		return "./data"
	}
	return "/data"
}

// SQLitePath returns the full path to the SQLite database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "feedback.db")
}

// UsePostgres reports whether the PostgreSQL store is configured.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// VerifySignatures reports whether inbound Slack requests must be signed.
func (c *Config) VerifySignatures() bool {
	return c.SlackSigningSecret != ""
}
