package screens

import (
	"context"
	"sync"
)

// Status is the lifecycle of a data-bearing screen.
type Status int

const (
	// StatusLoading means a fetch is in flight and no data is ready.
	StatusLoading Status = iota
	// StatusReady means the last fetch succeeded.
	StatusReady
	// StatusError means the last fetch failed and a retry should be offered.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "loading"
	}
}

// Screen is the loading→ready|error state machine every view follows.
// Results arriving after the load's context is cancelled are discarded, so a
// torn-down view is never written to.
type Screen[T any] struct {
	mu     sync.Mutex
	status Status
	data   T
	err    error
	gen    uint64

	lastFetch func(context.Context) (T, error)
}

// Load runs fetch and transitions the screen. Only the most recent load may
// apply its result; a stale or cancelled load leaves state untouched.
func (s *Screen[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.status = StatusLoading
	s.err = nil
	s.lastFetch = fetch
	s.mu.Unlock()

	data, err := fetch(ctx)
	s.apply(ctx, gen, data, err)
}

// Retry reruns the previous fetch, if any.
func (s *Screen[T]) Retry(ctx context.Context) {
	s.mu.Lock()
	fetch := s.lastFetch
	s.mu.Unlock()
	if fetch != nil {
		s.Load(ctx, fetch)
	}
}

// Refresh reruns the previous fetch but keeps ready data on failure instead
// of flipping to the error state. Background refreshes use this so a
// transient failure never replaces known-good data.
func (s *Screen[T]) Refresh(ctx context.Context) error {
	s.mu.Lock()
	fetch := s.lastFetch
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	if fetch == nil {
		return nil
	}

	data, err := fetch(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil
	}
	s.status = StatusReady
	s.data = data
	s.err = nil
	return nil
}

// Snapshot returns the current state.
func (s *Screen[T]) Snapshot() (T, Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, s.status, s.err
}

func (s *Screen[T]) apply(ctx context.Context, gen uint64, data T, err error) {
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	if err != nil {
		s.status = StatusError
		s.err = err
		return
	}
	s.status = StatusReady
	s.data = data
	s.err = nil
}
