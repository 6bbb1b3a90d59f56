package pool

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/color-mixer/core"
)

// Spec describes one ingredient kind served by a pool
type Spec struct {
	Kind       string
	Color      core.Color
	RenewDelay time.Duration
}

// Physics is the mutable rigid-body state of an instance
type Physics struct {
	Velocity        core.Vec3
	AngularVelocity core.Vec3
	Frozen          bool
}

// Handle is one ingredient instance owned by a Pool
// The pool decides checked-out state; borrowers only touch the
// interactable flag, transform and physics
type Handle struct {
	id    uuid.UUID
	kind  string
	color core.Color
	pool  *Pool

	interactable atomic.Bool
	destroyed    atomic.Bool

	// Guarded by pool.mu
	checkedOut bool

	mu        sync.Mutex
	transform core.Transform
	physics   Physics
}

func newHandle(spec Spec) *Handle {
	return &Handle{
		id:    uuid.New(),
		kind:  spec.Kind,
		color: spec.Color,
	}
}

func (h *Handle) ID() uuid.UUID     { return h.id }
func (h *Handle) Kind() string      { return h.kind }
func (h *Handle) Color() core.Color { return h.color }

// Pool returns the owning pool, nil for handles not issued by a pool
func (h *Handle) Pool() *Pool { return h.pool }

func (h *Handle) Interactable() bool     { return h.interactable.Load() }
func (h *Handle) SetInteractable(v bool) { h.interactable.Store(v) }

// TryClaim flips interactable from true to false
// Only one of several racing callers succeeds
func (h *Handle) TryClaim() bool {
	return h.interactable.CompareAndSwap(true, false)
}

// Destroyed reports whether the owning pool tore the instance down
func (h *Handle) Destroyed() bool { return h.destroyed.Load() }

// CheckedOut reports whether the handle is currently borrowed from its pool
func (h *Handle) CheckedOut() bool {
	if h.pool == nil {
		return false
	}
	h.pool.mu.Lock()
	defer h.pool.mu.Unlock()
	return h.checkedOut
}

func (h *Handle) Transform() core.Transform {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.transform
}

func (h *Handle) SetTransform(t core.Transform) {
	h.mu.Lock()
	h.transform = t
	h.mu.Unlock()
}

// SetPosition moves the instance keeping orientation and parent
func (h *Handle) SetPosition(p core.Vec3) {
	h.mu.Lock()
	h.transform.Position = p
	h.mu.Unlock()
}

func (h *Handle) Physics() Physics {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.physics
}

func (h *Handle) SetPhysics(p Physics) {
	h.mu.Lock()
	h.physics = p
	h.mu.Unlock()
}

// Release returns the handle to its pool
// Returns false if it was already idle
func (h *Handle) Release() bool {
	if h.pool == nil {
		return false
	}
	return h.pool.Release(h)
}
