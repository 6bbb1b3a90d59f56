package audio

import "sync/atomic"

// Player is anything that plays cues
type Player interface {
	Play(cue Cue)
}

// Mutable gates a Player behind a runtime mute toggle
type Mutable struct {
	player Player
	muted  atomic.Bool
}

// NewMutable wraps p, starting unmuted
func NewMutable(p Player) *Mutable {
	if p == nil {
		p = Silent{}
	}
	return &Mutable{player: p}
}

// Play forwards cue unless muted
func (m *Mutable) Play(cue Cue) {
	if m.muted.Load() {
		return
	}
	m.player.Play(cue)
}

// Toggle flips the mute state and returns the new state
func (m *Mutable) Toggle() bool {
	for {
		old := m.muted.Load()
		if m.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Muted reports whether cues are dropped
func (m *Mutable) Muted() bool {
	return m.muted.Load()
}
