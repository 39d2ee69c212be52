// Package cache serves read-mostly lists from a periodically refreshed
// in-process snapshot. Reads may be stale by at most one refresh interval;
// writes never go through here.
package cache

import (
	"context"
	"log"
	"sync"
	"time"
)

// Loader fetches the authoritative value
type Loader[T any] func(ctx context.Context) (T, error)

// Snapshot holds the last loaded value of T
type Snapshot[T any] struct {
	name     string
	load     Loader[T]
	interval time.Duration
	clone    func(T) T

	mu        sync.RWMutex
	value     T
	fetchedAt time.Time
	loaded    bool

	stop chan struct{}
	done chan struct{}
}

// View is a snapshot value with its age
type View[T any] struct {
	Value        T
	FetchedAt    time.Time
	MaxStaleness time.Duration
}

// NewSnapshot creates a snapshot refreshed every interval once started.
// clone copies values in and out so callers cannot alias the cached data.
func NewSnapshot[T any](name string, interval time.Duration, load Loader[T], clone func(T) T) *Snapshot[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Snapshot[T]{name: name, load: load, interval: interval, clone: clone}
}

func (s *Snapshot[T]) Interval() time.Duration {
	return s.interval
}

// Get returns the cached value, loading it first if it was never loaded, is
// older than the interval, or fresh is set.
func (s *Snapshot[T]) Get(ctx context.Context, fresh bool) (View[T], error) {
	s.mu.RLock()
	usable := s.loaded && !fresh && time.Since(s.fetchedAt) <= s.interval
	view := View[T]{Value: s.clone(s.value), FetchedAt: s.fetchedAt, MaxStaleness: s.interval}
	s.mu.RUnlock()
	if usable {
		return view, nil
	}
	return s.Refresh(ctx)
}

// Refresh loads the value now. On failure the previous value is kept.
func (s *Snapshot[T]) Refresh(ctx context.Context) (View[T], error) {
	value, err := s.load(ctx)
	if err != nil {
		return View[T]{}, err
	}
	s.Set(value)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return View[T]{Value: s.clone(s.value), FetchedAt: s.fetchedAt, MaxStaleness: s.interval}, nil
}

// Set replaces the cached value, e.g. after a successful write
func (s *Snapshot[T]) Set(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = s.clone(value)
	s.fetchedAt = time.Now()
	s.loaded = true
}

// Update patches the cached value in place. It is a no-op until the first
// load, so a write never fabricates a partial snapshot.
func (s *Snapshot[T]) Update(fn func(T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return
	}
	s.value = s.clone(fn(s.value))
}

// Start refreshes in the background until ctx is done or Stop is called
func (s *Snapshot[T]) Start(ctx context.Context) {
	if s.interval <= 0 || s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.refreshLoop(ctx)
}

func (s *Snapshot[T]) refreshLoop(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			rctx, cancel := context.WithTimeout(ctx, s.interval)
			if _, err := s.Refresh(rctx); err != nil {
				log.Printf("Warning: %s cache refresh failed: %v", s.name, err)
			}
			cancel()
		}
	}
}

func (s *Snapshot[T]) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
}
