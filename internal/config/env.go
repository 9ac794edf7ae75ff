package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Slack (Required)
	EnvSlackAPIKey        = "SLACK_API_KEY"
	EnvSlackChannel       = "SLACK_CHANNEL"
	EnvSlackSigningSecret = "SLACK_SIGNING_SECRET"
	EnvSlackCommand       = "SLACK_COMMAND"

	// Translation
	EnvTranslatorProvider = "TRANSLATOR_PROVIDER"
	EnvAnalyzerHost       = "ANALYZER_HOST"
	EnvOpenAIAPIKey       = "OPENAI_API_KEY"
	EnvOpenAIBaseURL      = "OPENAI_BASE_URL"
	EnvOpenAIModel        = "OPENAI_MODEL"
	EnvGeminiAPIKey       = "GEMINI_API_KEY"
	EnvGeminiModel        = "GEMINI_MODEL"
	EnvTranslateTimeout   = "TRANSLATE_TIMEOUT"

	// Flow
	EnvFlowTimeout = "FLOW_TIMEOUT"

	// Storage
	EnvDatabaseURL = "DATABASE_URL"
	EnvDataDir     = "DATA_DIR"

	// Server
	EnvPort            = "PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	// Better Stack Feature
	EnvBetterStackToken    = "BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "BETTERSTACK_ENDPOINT"

	// Sentry Feature
	EnvSentryToken       = "SENTRY_TOKEN"
	EnvSentryHost        = "SENTRY_HOST"
	EnvSentryEnvironment = "SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "SENTRY_SAMPLE_RATE"

	// Metrics Auth Feature
	EnvMetricsUsername = "METRICS_USERNAME"
	EnvMetricsPassword = "METRICS_PASSWORD"
)
