package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/anoopvm/coconut-advisor-go/internal/ctxutil"
)

func parseLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%q)", err, buf.String())
	}
	return entry
}

func TestJSONOutputUsesHouseKeys(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)
	log.Info("started", "port", 8080)

	entry := parseLine(t, &buf)
	if entry["message"] != "started" {
		t.Errorf("message = %v, want started", entry["message"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("timestamp key missing")
	}
	if entry["port"] != float64(8080) {
		t.Errorf("port = %v, want 8080", entry["port"])
	}
}

func TestWarnLevelRendersAsWarning(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWithWriter("debug", &buf).Warn("careful")
	if entry := parseLine(t, &buf); entry["level"] != "warning" {
		t.Errorf("level = %v, want warning", entry["level"])
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level      string
		debugShown bool
	}{
		{"debug", true},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"unknown", false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		NewWithWriter(tt.level, &buf).Debug("noise")
		if got := buf.Len() > 0; got != tt.debugShown {
			t.Errorf("level %q: debug emitted = %v, want %v", tt.level, got, tt.debugShown)
		}
	}
}

func TestContextValuesAreInjected(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	ctx := ctxutil.WithSenderID(context.Background(), "farmer-1")
	ctx = ctxutil.WithRequestID(ctx, "req-9")
	log.InfoContext(ctx, "turn handled")

	entry := parseLine(t, &buf)
	if entry["sender_id"] != "farmer-1" {
		t.Errorf("sender_id = %v, want farmer-1", entry["sender_id"])
	}
	if entry["request_id"] != "req-9" {
		t.Errorf("request_id = %v, want req-9", entry["request_id"])
	}
}

func TestWithHelpers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter("info", &buf).WithModule("pipeline").WithField("version", "1.0")
	log.Info("hello")

	entry := parseLine(t, &buf)
	if entry["module"] != "pipeline" {
		t.Errorf("module = %v, want pipeline", entry["module"])
	}
	if entry["version"] != "1.0" {
		t.Errorf("version = %v, want 1.0", entry["version"])
	}
}

func TestShutdownWithoutRemoteSink(t *testing.T) {
	t.Parallel()

	log := NewWithWriter("info", &bytes.Buffer{})
	if err := log.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v, want nil", err)
	}

	var nilLogger *Logger
	if err := nilLogger.Shutdown(context.Background()); err != nil {
		t.Errorf("nil Shutdown() = %v, want nil", err)
	}
}
