package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Better Stack ingestion is an HTTP call, and Rasa blocks the conversation
// turn on the webhook response. The shipping queue keeps the two apart: a
// webhook goroutine only enqueues, a single background goroutine ships, and
// a full queue drops the record instead of stalling the turn.
const (
	defaultShipQueueSize    = 256
	defaultShipFlushTimeout = 3 * time.Second
)

// AsyncOptions tunes the shipping queue. Zero values take the defaults.
type AsyncOptions struct {
	// QueueSize is how many records may be buffered before drops start.
	QueueSize int
	// FlushTimeout bounds Shutdown when the caller's context carries no
	// deadline of its own.
	FlushTimeout time.Duration
}

// shipped is one queued record together with the sink it belongs to. The
// sink travels with the record because WithAttrs/WithGroup derivatives share
// one queue but ship to differently-decorated sinks.
type shipped struct {
	ctx  context.Context
	rec  slog.Record
	sink slog.Handler
}

// shipQueue is the state shared by an AsyncHandler and all its derivatives.
type shipQueue struct {
	ch      chan shipped
	timeout time.Duration
	stopped atomic.Bool
	dropped atomic.Uint64
	done    sync.WaitGroup
}

func newShipQueue(opts AsyncOptions) *shipQueue {
	size := opts.QueueSize
	if size <= 0 {
		size = defaultShipQueueSize
	}
	timeout := opts.FlushTimeout
	if timeout <= 0 {
		timeout = defaultShipFlushTimeout
	}

	q := &shipQueue{
		ch:      make(chan shipped, size),
		timeout: timeout,
	}
	q.done.Add(1)
	go q.ship()
	return q
}

func (q *shipQueue) ship() {
	defer q.done.Done()
	for s := range q.ch {
		_ = s.sink.Handle(s.ctx, s.rec)
	}
}

// offer enqueues a record, dropping it when the queue is full or closing.
func (q *shipQueue) offer(ctx context.Context, rec slog.Record, sink slog.Handler) {
	if q.stopped.Load() {
		q.dropped.Add(1)
		return
	}
	select {
	case q.ch <- shipped{ctx: ctx, rec: rec, sink: sink}:
	default:
		q.dropped.Add(1)
	}
}

// close drains the queue. When records were dropped under backpressure, one
// final synchronous record reports the count through sink, so the loss is
// visible in Better Stack itself.
func (q *shipQueue) close(ctx context.Context, sink slog.Handler) error {
	if q.stopped.Swap(true) {
		return nil
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	close(q.ch)
	drained := make(chan struct{})
	go func() {
		q.done.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-ctx.Done():
		return ctx.Err()
	}

	if n := q.dropped.Load(); n > 0 {
		rec := slog.NewRecord(time.Now(), slog.LevelWarn,
			"log records dropped under backpressure", 0)
		rec.AddAttrs(slog.Uint64("dropped", n))
		_ = sink.Handle(context.WithoutCancel(ctx), rec)
	}
	return nil
}

// AsyncHandler ships records to its sink through a background queue.
type AsyncHandler struct {
	queue *shipQueue
	sink  slog.Handler
}

// NewAsyncHandler wraps sink so its Handle never blocks the caller.
func NewAsyncHandler(sink slog.Handler, opts AsyncOptions) *AsyncHandler {
	return &AsyncHandler{
		queue: newShipQueue(opts),
		sink:  sink,
	}
}

// Enabled defers to the sink.
func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.sink.Enabled(ctx, level)
}

// Handle enqueues the record for background shipping. Records the sink would
// discard anyway are not queued.
func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.sink.Enabled(ctx, r.Level) {
		return nil
	}
	h.queue.offer(ctx, r.Clone(), h.sink)
	return nil
}

// WithAttrs decorates the sink; the queue is shared with the parent.
func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{queue: h.queue, sink: h.sink.WithAttrs(attrs)}
}

// WithGroup decorates the sink; the queue is shared with the parent.
func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{queue: h.queue, sink: h.sink.WithGroup(name)}
}

// Shutdown drains pending records, bounded by ctx or the flush timeout.
func (h *AsyncHandler) Shutdown(ctx context.Context) error {
	if h == nil || h.queue == nil {
		return nil
	}
	return h.queue.close(ctx, h.sink)
}
