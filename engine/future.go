package engine

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrKilled resolves a wait-handle whose effect was interrupted before settling
	ErrKilled = errors.New("effect killed")

	// ErrSuperseded is the cancellation cause when a newer placement replaces the scope
	ErrSuperseded = errors.New("scope superseded")

	// ErrMixRequested is the cancellation cause when the mix trigger cuts the wait short
	ErrMixRequested = errors.New("mix requested")
)

// IsInterruption reports whether err is a normal cancellation outcome rather than a failure
func IsInterruption(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ErrKilled) ||
		errors.Is(err, ErrSuperseded) ||
		errors.Is(err, ErrMixRequested)
}

// Future is a one-shot wait-handle shared by any number of waiters
// First Resolve wins; later calls are ignored
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

// Signal is a valueless wait-handle
type Signal = Future[struct{}]

// NewFuture creates an unresolved future
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved creates a future already settled with v
func Resolved[T any](v T) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(v, nil)
	return f
}

// Failed creates a future already settled with err
func Failed[T any](err error) *Future[T] {
	f := NewFuture[T]()
	var zero T
	f.Resolve(zero, err)
	return f
}

// Completed returns a settled signal, used by coalesced no-op transitions
func Completed() *Signal {
	return Resolved(struct{}{})
}

// Resolve settles the future, returns false if it was already settled
func (f *Future[T]) Resolve(v T, err error) bool {
	settled := false
	f.once.Do(func() {
		f.val = v
		f.err = err
		close(f.done)
		settled = true
	})
	return settled
}

// Done is closed once the future settles
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or ctx ends
// A ctx ending returns its cause, the future itself is unaffected
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, context.Cause(ctx)
	}
}

// Result returns the settled value without blocking, ok is false while pending
func (f *Future[T]) Result() (v T, err error, ok bool) {
	select {
	case <-f.done:
		return f.val, f.err, true
	default:
		var zero T
		return zero, nil, false
	}
}

// Settled reports whether the future has resolved
func (f *Future[T]) Settled() bool {
	_, _, ok := f.Result()
	return ok
}

// Await waits on a signal discarding its value
func Await(ctx context.Context, s *Signal) error {
	_, err := s.Wait(ctx)
	return err
}
