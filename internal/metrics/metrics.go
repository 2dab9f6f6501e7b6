// Package metrics defines the Prometheus instrumentation for the action
// server and its pipeline stages.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Webhook metrics
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookDurationSeconds *prometheus.HistogramVec

	// Pipeline metrics
	ClassificationsTotal *prometheus.CounterVec
	AnswersTotal         *prometheus.CounterVec

	// Cache metrics
	CacheHitsTotal    *prometheus.CounterVec
	CacheMissesTotal  *prometheus.CounterVec
	CacheEntries      prometheus.Gauge
	CacheSweepEvicted prometheus.Counter

	// Remote-call metrics
	CompletionCallsTotal    *prometheus.CounterVec
	CompletionDurationSecs  *prometheus.HistogramVec
	WeatherRequestsTotal    *prometheus.CounterVec
	WeatherDurationSeconds  prometheus.Histogram
	RateLimiterDroppedTotal *prometheus.CounterVec
}

// New creates a Metrics instance with all metrics registered.
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_webhook_requests_total",
				Help: "Total number of action webhook requests by action and status",
			},
			[]string{"action", "status"}, // status: success, error, unknown_action
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "advisor_webhook_duration_seconds",
				Help:    "Action webhook processing duration in seconds by action",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 20},
			},
			[]string{"action"},
		),

		ClassificationsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_classifications_total",
				Help: "Total intent classifications by source and intent",
			},
			[]string{"source", "intent"}, // source: keyword, cache, model, fallback
		),

		AnswersTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_answers_total",
				Help: "Total answers produced by outcome",
			},
			[]string{"outcome"}, // outcome: generated, cached, fallback, rate_limited, no_information
		),

		CacheHitsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_cache_hits_total",
				Help: "Total response-cache hits by operation",
			},
			[]string{"operation"}, // operation: classify, answer
		),

		CacheMissesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_cache_misses_total",
				Help: "Total response-cache misses by operation",
			},
			[]string{"operation"},
		),

		CacheEntries: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "advisor_cache_entries",
				Help: "Current number of response-cache entries, stale included",
			},
		),

		CacheSweepEvicted: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "advisor_cache_sweep_evicted_total",
				Help: "Total expired cache entries removed by the background sweep",
			},
		),

		CompletionCallsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_completion_calls_total",
				Help: "Total remote completion calls by provider and status",
			},
			[]string{"provider", "status"}, // status: success, error
		),

		CompletionDurationSecs: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "advisor_completion_duration_seconds",
				Help:    "Remote completion call duration in seconds by provider",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15, 30},
			},
			[]string{"provider"},
		),

		WeatherRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_weather_requests_total",
				Help: "Total weather API requests by endpoint and status",
			},
			[]string{"endpoint", "status"}, // endpoint: current, forecast
		),

		WeatherDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "advisor_weather_duration_seconds",
				Help:    "Weather API request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		),

		RateLimiterDroppedTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_rate_limiter_dropped_total",
				Help: "Total requests dropped by a rate limiter, by limiter",
			},
			[]string{"limiter"}, // limiter: sender, llm
		),
	}
}

// global is the process-wide instance used by packages that are not handed a
// Metrics explicitly. All record helpers are nil-safe, so instrumented code
// works unchanged in tests that never call InitGlobal.
var global *Metrics

// InitGlobal installs m as the process-wide metrics instance.
func InitGlobal(m *Metrics) { global = m }

// Global returns the process-wide metrics instance, or nil before InitGlobal.
func Global() *Metrics { return global }

// RecordClassification counts one intent classification.
func (m *Metrics) RecordClassification(source, intent string) {
	if m == nil {
		return
	}
	m.ClassificationsTotal.WithLabelValues(source, intent).Inc()
}

// RecordAnswer counts one produced answer by outcome.
func (m *Metrics) RecordAnswer(outcome string) {
	if m == nil {
		return
	}
	m.AnswersTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheHit counts one response-cache hit for an operation.
func (m *Metrics) RecordCacheHit(operation string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(operation).Inc()
}

// RecordCacheMiss counts one response-cache miss for an operation.
func (m *Metrics) RecordCacheMiss(operation string) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.WithLabelValues(operation).Inc()
}

// RecordCompletion counts one remote completion call with its duration.
func (m *Metrics) RecordCompletion(provider, status string, seconds float64) {
	if m == nil {
		return
	}
	m.CompletionCallsTotal.WithLabelValues(provider, status).Inc()
	m.CompletionDurationSecs.WithLabelValues(provider).Observe(seconds)
}

// RecordWeather counts one weather API request with its duration.
func (m *Metrics) RecordWeather(endpoint, status string, seconds float64) {
	if m == nil {
		return
	}
	m.WeatherRequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.WeatherDurationSeconds.Observe(seconds)
}
