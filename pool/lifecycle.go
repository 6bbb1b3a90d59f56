package pool

import (
	"github.com/rs/zerolog"

	"github.com/lixenwraith/color-mixer/core"
)

// Lifecycle holds the four instance callbacks a Pool invokes
// Every call happens inside the pool's critical section and must not call back into the pool
type Lifecycle interface {
	// Create builds a new instance for spec
	Create(spec Spec) *Handle
	// Take prepares an instance for checkout at the given placement
	Take(h *Handle, at core.Transform)
	// Return resets an instance coming back to the idle set
	Return(h *Handle)
	// Destroy tears an instance down when the pool closes
	Destroy(h *Handle)
}

// Ingredients is the default Lifecycle for ingredient instances
type Ingredients struct {
	Log zerolog.Logger
}

// Create allocates a handle with a fresh identity
func (l Ingredients) Create(spec Spec) *Handle {
	h := newHandle(spec)
	l.Log.Debug().Str("kind", spec.Kind).Stringer("handle", h.id).Msg("ingredient created")
	return h
}

// Take places the instance at rest on the shelf and makes it interactable
func (l Ingredients) Take(h *Handle, at core.Transform) {
	h.SetTransform(at)
	h.SetPhysics(Physics{Frozen: true})
	h.SetInteractable(true)
}

// Return zeroes physics and detaches the instance from the scene
func (l Ingredients) Return(h *Handle) {
	h.SetPhysics(Physics{})
	h.SetTransform(core.Transform{Orientation: core.QuatIdentity})
	h.SetInteractable(false)
}

// Destroy marks the instance unusable
func (l Ingredients) Destroy(h *Handle) {
	h.SetInteractable(false)
	h.destroyed.Store(true)
	l.Log.Debug().Str("kind", h.kind).Stringer("handle", h.id).Msg("ingredient destroyed")
}
