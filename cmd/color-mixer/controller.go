package main

import (
	"github.com/rs/zerolog"

	"github.com/lixenwraith/color-mixer/event"
	"github.com/lixenwraith/color-mixer/input"
)

// session is the write side of the orchestrator used by key input
type session interface {
	Post(ev event.GameEvent)
	PostPlaceSlot(index int) bool
	PostEjectLast() bool
}

// muter toggles sound cues
type muter interface {
	Toggle() bool
}

// controller routes intents to the session
type controller struct {
	session  session
	cues     muter
	onResize func()
	log      zerolog.Logger
}

// apply executes one intent, returns false when the user asked to quit
func (c *controller) apply(in *input.Intent) bool {
	if in == nil {
		return true
	}

	switch in.Type {
	case input.IntentQuit:
		return false
	case input.IntentPlace:
		if !c.session.PostPlaceSlot(in.Slot) {
			c.log.Debug().Int("slot", in.Slot).Msg("Slot empty")
		}
	case input.IntentMix:
		c.session.Post(event.GameEvent{Type: event.EventMixTrigger})
	case input.IntentEject:
		if !c.session.PostEjectLast() {
			c.log.Debug().Msg("Nothing to eject")
		}
	case input.IntentRestart:
		c.session.Post(event.GameEvent{Type: event.EventLevelRestart})
	case input.IntentNext:
		c.session.Post(event.GameEvent{Type: event.EventLevelNext})
	case input.IntentToggleMute:
		muted := c.cues.Toggle()
		c.log.Debug().Bool("muted", muted).Msg("Mute toggled")
	case input.IntentResize:
		if c.onResize != nil {
			c.onResize()
		}
	}
	return true
}
