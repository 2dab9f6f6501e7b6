// Package config provides centralized timeout constants for the application.
//
// These values are tuned for the action server's position in the stack:
// Rasa blocks a conversation turn on the webhook response, so every remote
// call made while handling an action must finish well inside the webhook
// budget, with room for one model fallback.
package config

import "time"

// Webhook timeouts
const (
	// WebhookProcessing is the timeout for handling a single action request.
	// It must cover the worst case of a classification call plus an answer
	// generation call, each with retries and a provider fallback.
	WebhookProcessing = 30 * time.Second

	// WebhookHTTPRead is the HTTP server read timeout. Rasa payloads are
	// small JSON bodies, so this stays short.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite is the HTTP server write timeout. Must accommodate
	// WebhookProcessing plus response serialization.
	WebhookHTTPWrite = 35 * time.Second

	// WebhookHTTPIdle is the HTTP server idle timeout for keep-alive
	// connections from the Rasa side.
	WebhookHTTPIdle = 120 * time.Second
)

// Remote call timeouts
const (
	// CompletionRequest is the per-call timeout for a single LLM completion.
	// Short enough that the fallback chain can still try a second provider
	// within WebhookProcessing.
	CompletionRequest = 15 * time.Second

	// WeatherRequest is the timeout for a single OpenWeatherMap call.
	WeatherRequest = 10 * time.Second
)

// Background job intervals
const (
	// CacheSweep is how often expired response-cache entries are evicted.
	CacheSweep = time.Hour

	// RateLimiterCleanupInterval is how often inactive per-sender rate
	// limiters are discarded.
	RateLimiterCleanupInterval = 5 * time.Minute
)

// Graceful shutdown
const (
	// GracefulShutdown is the timeout for graceful server shutdown.
	// Allows in-flight turns to complete before forceful termination.
	GracefulShutdown = 30 * time.Second
)
