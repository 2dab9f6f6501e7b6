// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the server, the LLM provider chain, the weather client and the cache.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// LLM Configuration. A provider is enabled when its API key is set;
	// model lists are optional comma-separated overrides.
	GeminiAPIKey   string
	GroqAPIKey     string
	CerebrasAPIKey string
	GeminiModels   []string
	GroqModels     []string
	CerebrasModels []string
	LLMTimeout     time.Duration

	// Weather Configuration
	OpenWeatherAPIKey  string // empty disables the weather actions
	OpenWeatherBaseURL string
	WeatherTimeout     time.Duration

	// Cache Configuration
	CacheTTL           time.Duration // absolute expiration for cached responses (default: 24h)
	CacheSweepInterval time.Duration

	// Answer Validation
	AnswerDenylist []string // extra ungrounded-claim patterns, appended to the built-in set

	// Rate Limits (Token Bucket Algorithm)
	SenderRateBurst        float64 // maximum burst tokens per sender (default: 15)
	SenderRateRefillPerSec float64 // tokens refilled per second (default: 0.5)
	LLMRateBurst           float64 // maximum burst completion calls per sender (default: 5)
	LLMRateRefillPerSec    float64 // completion tokens refilled per second (default: 0.2)

	// Sentry Configuration
	SentryDSN         string // empty disables error reporting
	SentryEnvironment string
	SentrySampleRate  float64

	// Better Stack Configuration
	BetterStackToken    string // empty disables remote log shipping
	BetterStackEndpoint string

	// Metrics Authentication
	MetricsUsername string // username for /metrics Basic Auth (default: "prometheus")
	MetricsPassword string // password for /metrics Basic Auth (empty = no auth)
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		// Server Configuration
		Port:            getEnv(EnvPort, "5055"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),

		// LLM Configuration
		GeminiAPIKey:   getEnv(EnvGeminiAPIKey, ""),
		GroqAPIKey:     getEnv(EnvGroqAPIKey, ""),
		CerebrasAPIKey: getEnv(EnvCerebrasAPIKey, ""),
		GeminiModels:   getListEnv(EnvGeminiModels),
		GroqModels:     getListEnv(EnvGroqModels),
		CerebrasModels: getListEnv(EnvCerebrasModels),
		LLMTimeout:     getDurationEnv(EnvLLMTimeout, CompletionRequest),

		// Weather Configuration
		OpenWeatherAPIKey:  getEnv(EnvOpenWeatherAPIKey, ""),
		OpenWeatherBaseURL: getEnv(EnvOpenWeatherBaseURL, ""),
		WeatherTimeout:     getDurationEnv(EnvWeatherTimeout, WeatherRequest),

		// Cache Configuration
		CacheTTL:           getDurationEnv(EnvCacheTTL, 24*time.Hour),
		CacheSweepInterval: getDurationEnv(EnvCacheSweepInterval, CacheSweep),

		// Answer Validation
		AnswerDenylist: getListEnv(EnvAnswerDenylist),

		// Rate Limits
		SenderRateBurst:        getFloatEnv(EnvSenderRateBurst, 15.0),
		SenderRateRefillPerSec: getFloatEnv(EnvSenderRateRefill, 0.5),
		LLMRateBurst:           getFloatEnv(EnvLLMRateBurst, 5.0),
		LLMRateRefillPerSec:    getFloatEnv(EnvLLMRateRefill, 0.2),

		// Sentry Configuration
		SentryDSN:         getEnv(EnvSentryDSN, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		// Better Stack Configuration
		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		// Metrics Authentication
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

	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvCacheTTL, c.CacheTTL))
	}
	if c.CacheSweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvCacheSweepInterval, c.CacheSweepInterval))
	}
	if c.LLMTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvLLMTimeout, c.LLMTimeout))
	}
	if c.WeatherTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvWeatherTimeout, c.WeatherTimeout))
	}
	if c.SenderRateBurst <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvSenderRateBurst, c.SenderRateBurst))
	}
	if c.SenderRateRefillPerSec <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvSenderRateRefill, c.SenderRateRefillPerSec))
	}
	if c.LLMRateBurst <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvLLMRateBurst, c.LLMRateBurst))
	}
	if c.LLMRateRefillPerSec <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvLLMRateRefill, c.LLMRateRefillPerSec))
	}
	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", EnvSentrySampleRate, c.SentrySampleRate))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// HasLLMProvider returns true if at least one LLM provider is configured.
func (c *Config) HasLLMProvider() bool {
	return c.GeminiAPIKey != "" || c.GroqAPIKey != "" || c.CerebrasAPIKey != ""
}

// HasWeather returns true if the OpenWeatherMap client can be created.
func (c *Config) HasWeather() bool {
	return c.OpenWeatherAPIKey != ""
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

// getListEnv retrieves a comma-separated environment variable as a slice,
// trimming whitespace and dropping empty items. Unset returns nil.
func getListEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
