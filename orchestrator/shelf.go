package orchestrator

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/level"
	"github.com/lixenwraith/color-mixer/parameter"
	"github.com/lixenwraith/color-mixer/pool"
)

// shelfForward points from the shelf toward the vessel
var shelfForward = core.Vec3{Z: -1}

// Slot is one shelf position holding at most one ready ingredient
type Slot struct {
	Index      int
	Ingredient level.Ingredient
	Transform  core.Transform

	// Guarded by Orchestrator.mu
	handle *pool.Handle
}

// SlotView is a read-only snapshot of a slot
type SlotView struct {
	Index    int
	Kind     string
	Color    core.Color
	HandleID uuid.UUID
	Ready    bool
}

// slotTransforms centres n slots in equal segments of width at depth
// Each slot turns toward a focus point in front of the shelf, so outer slots angle inward
func slotTransforms(n int, width, depth float64) []core.Transform {
	holder := core.Vec3{Z: depth}
	focus := holder.Add(shelfForward.Scale(parameter.SlotFocusDistance))
	pad := 0.0
	if n > 0 {
		pad = width / float64(n)
	}
	out := make([]core.Transform, n)
	for i := range out {
		pos := holder
		if n > 1 {
			pos.X = -width/2 + pad/2 + pad*float64(i)
		}
		out[i] = core.Transform{
			Position:    pos,
			Orientation: core.LookRotation(focus.Sub(pos), core.Vec3{Y: 1}),
			Parent:      "shelf",
		}
	}
	return out
}

// Shelf returns a snapshot of the current slots
func (o *Orchestrator) Shelf() []SlotView {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]SlotView, len(o.slots))
	for i, s := range o.slots {
		v := SlotView{Index: s.Index, Kind: s.Ingredient.Name, Color: s.Ingredient.Color}
		if s.handle != nil && s.handle.Interactable() {
			v.HandleID = s.handle.ID()
			v.Ready = true
		}
		out[i] = v
	}
	return out
}

// slotForLocked finds the slot currently holding the handle with id
func (o *Orchestrator) slotForLocked(id uuid.UUID) (*Slot, *pool.Handle) {
	for _, s := range o.slots {
		if s.handle != nil && s.handle.ID() == id {
			return s, s.handle
		}
	}
	return nil, nil
}

// fillSlot stores a replenished handle, or returns it to its pool when the
// slot no longer belongs to the laid-out level or is already filled
func (o *Orchestrator) fillSlot(s *Slot, h *pool.Handle) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || s.Index >= len(o.slots) || o.slots[s.Index] != s || s.handle != nil {
		h.Release()
		return
	}
	s.handle = h
}
