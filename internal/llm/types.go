// Package llm provides the remote text-completion capability used by the
// intent classifier and the answer generator.
//
// Architecture:
//   - Gemini: google.golang.org/genai (official SDK)
//   - Groq/Cerebras: github.com/openai/openai-go/v3 (OpenAI-compatible API)
//
// Fallback strategy (3-layer):
//  1. Model retry: same model retried with full-jitter backoff
//  2. Model chain: next model in the same provider's list
//  3. Provider chain: next provider in the configured order
package llm

import (
	"context"
	"time"
)

// Provider represents an LLM provider.
type Provider string

const (
	// ProviderGemini is Google's Gemini API (native SDK).
	ProviderGemini Provider = "gemini"
	// ProviderGroq is Groq's OpenAI-compatible API.
	ProviderGroq Provider = "groq"
	// ProviderCerebras is Cerebras's OpenAI-compatible API.
	ProviderCerebras Provider = "cerebras"
)

// ProviderEndpoint defines the base URL for OpenAI-compatible providers.
// Gemini is absent because it uses its own SDK.
var ProviderEndpoint = map[Provider]string{
	ProviderGroq:     "https://api.groq.com/openai/v1/",
	ProviderCerebras: "https://api.cerebras.ai/v1/",
}

// String returns the string representation of the provider.
func (p Provider) String() string { return string(p) }

// Request is a single free-text completion request.
type Request struct {
	// Prompt is the full instruction + context prompt.
	Prompt string

	// Temperature controls sampling randomness. The pipeline uses 0.3
	// everywhere for near-deterministic output.
	Temperature float32

	// MaxTokens bounds the completion length (100 for classification,
	// 500 for answers).
	MaxTokens int
}

// Completer is the fallible remote text-completion capability. Tests
// substitute a deterministic stub.
type Completer interface {
	// Complete sends the prompt and returns the raw completion text.
	Complete(ctx context.Context, req Request) (string, error)
	// Provider returns the provider type for logging and metrics.
	Provider() Provider
	// Close releases any resources held by the completer.
	Close() error
}

// RetryConfig defines retry behavior for completion calls.
// Uses AWS-recommended Full Jitter exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts including the first.
	MaxAttempts int
	// InitialDelay is the base delay before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the delay between retries.
	MaxDelay time.Duration
}

// ProviderConfig holds configuration for a single provider.
type ProviderConfig struct {
	// APIKey enables the provider when non-empty.
	APIKey string
	// Models is the ordered model chain; first is primary.
	Models []string
}

// Config holds configuration for all providers.
type Config struct {
	// Providers is the fallback order. Only providers with API keys are used.
	Providers []Provider

	Gemini   ProviderConfig
	Groq     ProviderConfig
	Cerebras ProviderConfig

	// Timeout bounds each individual completion call.
	Timeout time.Duration

	Retry RetryConfig
}

// Default model chains. First element is primary, the rest are fallbacks.
var (
	DefaultGeminiModels   = []string{"gemini-2.5-flash", "gemini-2.5-flash-lite"}
	DefaultGroqModels     = []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant"}
	DefaultCerebrasModels = []string{"llama-3.3-70b", "llama-3.1-8b"}

	// DefaultProviders is the default provider fallback order.
	DefaultProviders = []Provider{ProviderGemini, ProviderGroq, ProviderCerebras}
)

// Defaults for retry and transport behavior.
const (
	DefaultTimeout           = 15 * time.Second
	DefaultMaxRetryAttempts  = 2
	DefaultInitialRetryDelay = 500 * time.Millisecond
	DefaultMaxRetryDelay     = 3 * time.Second
)

// DefaultConfig returns a Config with default chains and retry settings.
// API keys must still be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		Providers: DefaultProviders,
		Gemini:    ProviderConfig{Models: DefaultGeminiModels},
		Groq:      ProviderConfig{Models: DefaultGroqModels},
		Cerebras:  ProviderConfig{Models: DefaultCerebrasModels},
		Timeout:   DefaultTimeout,
		Retry: RetryConfig{
			MaxAttempts:  DefaultMaxRetryAttempts,
			InitialDelay: DefaultInitialRetryDelay,
			MaxDelay:     DefaultMaxRetryDelay,
		},
	}
}

// HasAnyProvider reports whether at least one provider has an API key.
func (c *Config) HasAnyProvider() bool {
	return c.Gemini.APIKey != "" || c.Groq.APIKey != "" || c.Cerebras.APIKey != ""
}

// providerConfig returns the configuration for p, or nil for unknown providers.
func (c *Config) providerConfig(p Provider) *ProviderConfig {
	switch p {
	case ProviderGemini:
		return &c.Gemini
	case ProviderGroq:
		return &c.Groq
	case ProviderCerebras:
		return &c.Cerebras
	default:
		return nil
	}
}

// ConfiguredProviders returns the providers with API keys, in fallback order.
func (c *Config) ConfiguredProviders() []Provider {
	result := make([]Provider, 0, len(c.Providers))
	for _, p := range c.Providers {
		if pc := c.providerConfig(p); pc != nil && pc.APIKey != "" {
			result = append(result, p)
		}
	}
	return result
}
