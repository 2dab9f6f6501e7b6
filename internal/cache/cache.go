// Package cache provides the time-bounded response cache shared by the
// classification and answer-generation stages. Entries become stale after the
// configured TTL and are treated as misses on lookup; a background sweep
// evicts them so the map cannot grow without bound.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultTTL is the absolute entry lifetime used when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// DefaultSweepInterval controls how often expired entries are evicted.
const DefaultSweepInterval = time.Hour

type entry struct {
	value     any
	createdAt time.Time
}

// Store is a TTL-bounded key/value cache. Puts overwrite unconditionally and
// reset the entry timestamp. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration

	// now is swappable for TTL-boundary tests.
	now func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a cache with the given TTL. Non-positive TTL falls back to
// DefaultTTL. The sweep goroutine is not started until StartSweep is called.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
}

// Key composes a cache key from an operation and two context parts.
// Classification uses (op, normalized text, prior intent); answer generation
// uses (op, intent, normalized text). An empty part becomes "none" so keys
// with and without a discriminator cannot collide.
func Key(operation, subject, discriminator string) string {
	if discriminator == "" {
		discriminator = "none"
	}
	return fmt.Sprintf("%s_%s_%s", operation, subject, discriminator)
}

// Get returns the cached value for key. A lookup is a hit only when the key
// exists and the entry is younger than the TTL; stale entries are reported as
// misses without being removed.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.createdAt) >= s.ttl {
		return nil, false
	}
	return e.value, true
}

// Put stores value under key, overwriting any previous entry and resetting
// its timestamp.
func (s *Store) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, createdAt: s.now()}
}

// Len returns the number of entries currently held, stale ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep removes all expired entries and returns how many were evicted.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for k, e := range s.entries {
		if now.Sub(e.createdAt) >= s.ttl {
			delete(s.entries, k)
			evicted++
		}
	}
	return evicted
}

// StartSweep launches a background goroutine that evicts expired entries every
// interval until ctx is cancelled or Stop is called. onSweep, when non-nil, is
// invoked with the eviction count after each pass.
func (s *Store) StartSweep(ctx context.Context, interval time.Duration, onSweep func(evicted int)) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				n := s.Sweep()
				if onSweep != nil {
					onSweep(n)
				}
			}
		}
	}()
}

// Stop terminates the sweep goroutine. Safe to call multiple times.
func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}
