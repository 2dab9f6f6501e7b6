// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Server
	EnvPort            = "PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	// Cache
	EnvCacheTTL           = "CACHE_TTL"
	EnvCacheSweepInterval = "CACHE_SWEEP_INTERVAL"

	// LLM Providers
	EnvGeminiAPIKey   = "GEMINI_API_KEY"
	EnvGroqAPIKey     = "GROQ_API_KEY"
	EnvCerebrasAPIKey = "CEREBRAS_API_KEY"
	EnvGeminiModels   = "GEMINI_MODELS"
	EnvGroqModels     = "GROQ_MODELS"
	EnvCerebrasModels = "CEREBRAS_MODELS"
	EnvLLMTimeout     = "LLM_TIMEOUT"

	// Weather
	EnvOpenWeatherAPIKey  = "OPENWEATHER_API_KEY"
	EnvOpenWeatherBaseURL = "OPENWEATHER_BASE_URL"
	EnvWeatherTimeout     = "WEATHER_TIMEOUT"

	// Answer Validation
	EnvAnswerDenylist = "ANSWER_DENYLIST"

	// Rate Limits
	EnvSenderRateBurst  = "SENDER_RATE_BURST"
	EnvSenderRateRefill = "SENDER_RATE_REFILL"
	EnvLLMRateBurst     = "LLM_RATE_BURST"
	EnvLLMRateRefill    = "LLM_RATE_REFILL"

	// Sentry Feature
	EnvSentryDSN         = "SENTRY_DSN"
	EnvSentryEnvironment = "SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackToken    = "BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsUsername = "METRICS_USERNAME"
	EnvMetricsPassword = "METRICS_PASSWORD"
)
