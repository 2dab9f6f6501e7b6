package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func TestMultiHandlerSkipsNilTargets(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	local := slog.NewJSONHandler(&buf, nil)

	// The Better Stack sink is optional; callers pass it unconditionally.
	mh := NewMultiHandler(nil, local, nil)
	if got := len(mh.targets); got != 1 {
		t.Errorf("targets = %d, want 1 after dropping nils", got)
	}
}

func TestMultiHandlerEnabledWhenAnyTargetIs(t *testing.T) {
	t.Parallel()

	var buf1, buf2 bytes.Buffer
	debugTarget := slog.NewJSONHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelDebug})
	errorTarget := slog.NewJSONHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelError})

	mh := NewMultiHandler(debugTarget, errorTarget)
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if !mh.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = false, want true while a debug target is attached", level)
		}
	}
}

func TestMultiHandlerDeliversToEveryTarget(t *testing.T) {
	t.Parallel()

	var buf1, buf2 bytes.Buffer
	mh := NewMultiHandler(
		slog.NewJSONHandler(&buf1, nil),
		slog.NewJSONHandler(&buf2, nil),
	)

	slog.New(mh).Info("webhook request completed", "action", "action_answer_query")

	for i, buf := range []*bytes.Buffer{&buf1, &buf2} {
		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("target %d wrote invalid JSON: %v", i, err)
		}
		if entry["msg"] != "webhook request completed" {
			t.Errorf("target %d msg = %v, want the delivered message", i, entry["msg"])
		}
		if entry["action"] != "action_answer_query" {
			t.Errorf("target %d action = %v, want action_answer_query", i, entry["action"])
		}
	}
}

func TestMultiHandlerRespectsTargetLevels(t *testing.T) {
	t.Parallel()

	var verbose, quiet bytes.Buffer
	mh := NewMultiHandler(
		slog.NewJSONHandler(&verbose, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	slog.New(mh).Info("classification cache hit")

	if verbose.Len() == 0 {
		t.Error("debug target should have received the info record")
	}
	if quiet.Len() != 0 {
		t.Error("error-level target should not have received the info record")
	}
}

func TestMultiHandlerWithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	mh := NewMultiHandler(slog.NewJSONHandler(&buf, nil))

	derived := mh.WithGroup("turn").WithAttrs([]slog.Attr{slog.String("sender_id", "farmer-7")})
	slog.New(derived).Info("answered query")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	turn, ok := entry["turn"].(map[string]any)
	if !ok {
		t.Fatalf("expected 'turn' group, got %v", entry)
	}
	if turn["sender_id"] != "farmer-7" {
		t.Errorf("turn.sender_id = %v, want farmer-7", turn["sender_id"])
	}
}

// failingHandler always accepts and always fails; it stands in for a remote
// sink whose transport is down.
type failingHandler struct {
	slog.Handler
}

func (h *failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("sink unavailable")
}

func TestMultiHandlerJoinsTargetErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	mh := NewMultiHandler(slog.NewJSONHandler(&buf, nil), &failingHandler{})

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "sweep finished", 0)
	err := mh.Handle(context.Background(), rec)

	if buf.Len() == 0 {
		t.Error("healthy target should still have written the record")
	}
	if err == nil || err.Error() != "sink unavailable" {
		t.Errorf("Handle() error = %v, want the failing target's error", err)
	}
}

func TestMultiHandlerConcurrentDelivery(t *testing.T) {
	t.Parallel()

	var buf1, buf2 bytes.Buffer
	var mu1, mu2 sync.Mutex
	mh := NewMultiHandler(
		slog.NewJSONHandler(&lockedWriter{w: &buf1, mu: &mu1}, nil),
		slog.NewJSONHandler(&lockedWriter{w: &buf2, mu: &mu2}, nil),
	)
	log := slog.New(mh)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			log.Info("turn processed", "n", i)
		}(i)
	}
	wg.Wait()

	mu1.Lock()
	count1 := bytes.Count(buf1.Bytes(), []byte("turn processed"))
	mu1.Unlock()
	mu2.Lock()
	count2 := bytes.Count(buf2.Bytes(), []byte("turn processed"))
	mu2.Unlock()

	if count1 != 100 || count2 != 100 {
		t.Errorf("deliveries = (%d, %d), want (100, 100)", count1, count2)
	}
}

// lockedWriter serializes concurrent writes to a buffer in tests.
type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}
