package orchestrator

import (
	_ "embed"
	"fmt"

	"github.com/lixenwraith/color-mixer/audio"
	"github.com/lixenwraith/color-mixer/engine/fsm"
	"github.com/lixenwraith/color-mixer/event"
)

//go:embed session.toml
var sessionGraph []byte

// Session phases
const (
	PhaseIdle           = "Idle"
	PhasePlacing        = "Placing"
	PhaseAwaitingSettle = "AwaitingSettle"
	PhaseMixRequested   = "MixRequested"
	PhaseMixing         = "Mixing"
	PhaseResetting      = "Resetting"
)

// newPhaseMachine builds the session phase machine
// Guards and actions run under o.mu
func newPhaseMachine() (*fsm.Machine[*Orchestrator], error) {
	m := fsm.NewMachine[*Orchestrator]()

	m.RegisterGuard("HasPlacement", func(o *Orchestrator) bool {
		return o.movement != nil
	})
	m.RegisterGuard("LastPassed", func(o *Orchestrator) bool {
		return o.lastResult != nil && o.lastResult.Passed(o.opts.WinThreshold)
	})

	m.RegisterAction("PublishPhase", func(o *Orchestrator, state string, _ map[string]any) {
		o.statPhase.Store(state)
		o.log.Debug().Str("phase", state).Msg("phase entered")
	})
	m.RegisterAction("PlayCue", func(o *Orchestrator, _ string, args map[string]any) {
		if name, ok := args["cue"].(string); ok {
			o.cues.Play(audio.Cue(name))
		}
	})

	if err := m.LoadConfig(sessionGraph); err != nil {
		return nil, fmt.Errorf("session graph: %w", err)
	}
	return m, nil
}

// fireLocked feeds an event to the phase machine, caller holds o.mu
func (o *Orchestrator) fireLocked(et event.EventType) bool {
	return o.phase.HandleEvent(o, et)
}

// fire feeds an internal completion event to the phase machine
func (o *Orchestrator) fire(et event.EventType) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fireLocked(et)
}

// fireIfCurrent fires et only while gen is the newest placement
func (o *Orchestrator) fireIfCurrent(et event.EventType, gen uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.scope.IsCurrent(gen) {
		o.fireLocked(et)
	}
}
