package vessel

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/pool"
)

// ContentSet holds the handles physically inside the vessel in arrival order
// Only checked-out handles are admitted and each at most once
type ContentSet struct {
	mu      sync.Mutex
	order   []*pool.Handle
	members map[uuid.UUID]struct{}
}

// NewContentSet creates an empty set
func NewContentSet() *ContentSet {
	return &ContentSet{members: make(map[uuid.UUID]struct{})}
}

// Add appends h, returns false if it is already present
func (c *ContentSet) Add(h *pool.Handle) (bool, error) {
	if !h.CheckedOut() {
		return false, fmt.Errorf("enter %s %s: %w", h.Kind(), h.ID(), ErrNotCheckedOut)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.members[h.ID()]; ok {
		return false, nil
	}
	c.members[h.ID()] = struct{}{}
	c.order = append(c.order, h)
	return true, nil
}

// Remove drops h, returns false if it was absent
func (c *ContentSet) Remove(h *pool.Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.members[h.ID()]; !ok {
		return false
	}
	delete(c.members, h.ID())
	for i, x := range c.order {
		if x == h {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports membership
func (c *ContentSet) Contains(h *pool.Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.members[h.ID()]
	return ok
}

// Handles returns a snapshot in arrival order
func (c *ContentSet) Handles() []*pool.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*pool.Handle, len(c.order))
	copy(out, c.order)
	return out
}

// Colors returns the member colors in arrival order
func (c *ContentSet) Colors() []core.Color {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Color, len(c.order))
	for i, h := range c.order {
		out[i] = h.Color()
	}
	return out
}

func (c *ContentSet) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Drain empties the set and returns what it held
func (c *ContentSet) Drain() []*pool.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.order
	c.order = nil
	c.members = make(map[uuid.UUID]struct{})
	return out
}
