package engine

import (
	"context"
	"sync"
	"sync/atomic"
)

// Scope owns the single active cancellation scope of a session
// Renewing atomically cancels the previous scope; the context is never shared
// outside the holder except as a read-only value
type Scope struct {
	mu         sync.Mutex
	parent     context.Context
	active     *scopeEntry
	generation uint64

	cancellations atomic.Int64
}

type scopeEntry struct {
	ctx        context.Context
	cancel     context.CancelCauseFunc
	generation uint64
	disposed   bool
}

// NewScope creates a holder whose scopes derive from parent
func NewScope(parent context.Context) *Scope {
	return &Scope{parent: parent}
}

// Renew cancels the live scope with cause and installs a fresh one
// Returns the new scope context and its generation
func (s *Scope) Renew(cause error) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(cause)

	s.generation++
	ctx, cancel := context.WithCancelCause(s.parent)
	s.active = &scopeEntry{ctx: ctx, cancel: cancel, generation: s.generation}
	return ctx, s.generation
}

// Cancel cancels the live scope with cause
// Idempotent: returns false when there is no live scope or it was already cancelled
func (s *Scope) Cancel(cause error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(cause)
}

func (s *Scope) cancelLocked(cause error) bool {
	e := s.active
	if e == nil || e.disposed || e.ctx.Err() != nil {
		return false
	}
	e.cancel(cause)
	s.cancellations.Add(1)
	return true
}

// Dispose releases the scope of the given generation once its wait has settled
// A disposed scope can no longer be cancelled
func (s *Scope) Dispose(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.active
	if e == nil || e.generation != generation || e.disposed {
		return
	}
	e.disposed = true
	e.cancel(nil)
	s.active = nil
}

// IsCurrent reports whether generation is the most recently created scope
func (s *Scope) IsCurrent(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation == generation
}

// Generation returns the most recent scope generation, 0 before the first Renew
func (s *Scope) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Cancellations counts live scopes cancelled so far
func (s *Scope) Cancellations() int64 {
	return s.cancellations.Load()
}
