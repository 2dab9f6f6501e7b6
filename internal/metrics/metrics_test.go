package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	if m == nil {
		t.Fatal("New() returned nil")
	}

	if m.WebhookRequestsTotal == nil {
		t.Error("WebhookRequestsTotal is nil")
	}
	if m.WebhookDurationSeconds == nil {
		t.Error("WebhookDurationSeconds is nil")
	}
	if m.ClassificationsTotal == nil {
		t.Error("ClassificationsTotal is nil")
	}
	if m.AnswersTotal == nil {
		t.Error("AnswersTotal is nil")
	}
	if m.CacheHitsTotal == nil {
		t.Error("CacheHitsTotal is nil")
	}
	if m.CacheMissesTotal == nil {
		t.Error("CacheMissesTotal is nil")
	}
	if m.CacheEntries == nil {
		t.Error("CacheEntries is nil")
	}
	if m.CacheSweepEvicted == nil {
		t.Error("CacheSweepEvicted is nil")
	}
	if m.CompletionCallsTotal == nil {
		t.Error("CompletionCallsTotal is nil")
	}
	if m.WeatherRequestsTotal == nil {
		t.Error("WeatherRequestsTotal is nil")
	}
	if m.RateLimiterDroppedTotal == nil {
		t.Error("RateLimiterDroppedTotal is nil")
	}
}

func TestCountersIncrement(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.WebhookRequestsTotal.WithLabelValues("action_answer_query", "success").Inc()
	m.WebhookRequestsTotal.WithLabelValues("action_answer_query", "success").Inc()
	m.ClassificationsTotal.WithLabelValues("keyword", "fertilizers").Inc()
	m.CacheSweepEvicted.Add(3)
	m.CacheEntries.Set(42)

	if got := testutil.ToFloat64(m.WebhookRequestsTotal.WithLabelValues("action_answer_query", "success")); got != 2 {
		t.Errorf("webhook counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ClassificationsTotal.WithLabelValues("keyword", "fertilizers")); got != 1 {
		t.Errorf("classification counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheSweepEvicted); got != 3 {
		t.Errorf("sweep counter = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.CacheEntries); got != 42 {
		t.Errorf("entries gauge = %v, want 42", got)
	}
}

func TestRecordHelpersNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordClassification("keyword", "pests")
	m.RecordAnswer("generated")
	m.RecordCacheHit("classify")
	m.RecordCacheMiss("answer")
	m.RecordCompletion("gemini", "success", 0.5)
	m.RecordWeather("forecast", "success", 0.1)
}

func TestRecordHelpers(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordClassification("model", "irrigation")
	m.RecordAnswer("fallback")
	m.RecordCacheHit("answer")
	m.RecordCompletion("groq", "error", 1.2)
	m.RecordWeather("weather", "not_found", 0.3)

	if got := testutil.ToFloat64(m.ClassificationsTotal.WithLabelValues("model", "irrigation")); got != 1 {
		t.Errorf("classification counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.AnswersTotal.WithLabelValues("fallback")); got != 1 {
		t.Errorf("answer counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CompletionCallsTotal.WithLabelValues("groq", "error")); got != 1 {
		t.Errorf("completion counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.WeatherRequestsTotal.WithLabelValues("weather", "not_found")); got != 1 {
		t.Errorf("weather counter = %v, want 1", got)
	}
}

func TestGlobal(t *testing.T) {
	if Global() != nil {
		t.Skip("global metrics already installed by another test")
	}
	m := New(prometheus.NewRegistry())
	InitGlobal(m)
	defer InitGlobal(nil)

	if Global() != m {
		t.Error("Global() did not return the installed instance")
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	New(registry)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected second New() on the same registry to panic")
		}
	}()
	New(registry)
}
