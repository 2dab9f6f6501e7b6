package logger

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler delivers each record to every attached handler, so the local
// JSON stream and the Better Stack shipper observe the same records. Targets
// keep their own level gates; records are cloned per target as slog requires.
type MultiHandler struct {
	targets []slog.Handler
}

// NewMultiHandler builds a MultiHandler from the non-nil handlers. Nil
// entries are allowed so callers can pass optional sinks unconditionally.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	targets := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			targets = append(targets, h)
		}
	}
	return &MultiHandler{targets: targets}
}

// Enabled reports whether at least one target wants the level.
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, t := range m.targets {
		if t.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every target enabled for its level. Targets
// that fail do not stop delivery to the rest; their errors are joined.
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, t := range m.targets {
		if !t.Enabled(ctx, r.Level) {
			continue
		}
		if err := t.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs derives a MultiHandler with the attributes applied to every target.
func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.derive(func(t slog.Handler) slog.Handler { return t.WithAttrs(attrs) })
}

// WithGroup derives a MultiHandler with the group applied to every target.
func (m *MultiHandler) WithGroup(name string) slog.Handler {
	return m.derive(func(t slog.Handler) slog.Handler { return t.WithGroup(name) })
}

func (m *MultiHandler) derive(transform func(slog.Handler) slog.Handler) *MultiHandler {
	targets := make([]slog.Handler, len(m.targets))
	for i, t := range m.targets {
		targets[i] = transform(t)
	}
	return &MultiHandler{targets: targets}
}
