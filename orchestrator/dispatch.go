package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/color-mixer/engine"
	"github.com/lixenwraith/color-mixer/event"
)

// Post enqueues an input event; safe for concurrent producers
func (o *Orchestrator) Post(ev event.GameEvent) {
	o.queue.Push(ev)
	o.Wake()
}

// Wake makes Run dispatch without waiting for the next tick
func (o *Orchestrator) Wake() {
	select {
	case o.wake <- struct{}{}:
	default:
	}
}

// PostPlaceSlot enqueues a placement for whatever is ready in slot index
// Returns false if the slot is empty or out of range
func (o *Orchestrator) PostPlaceSlot(index int) bool {
	o.mu.Lock()
	if index < 0 || index >= len(o.slots) || o.slots[index].handle == nil {
		o.mu.Unlock()
		return false
	}
	id := o.slots[index].handle.ID()
	o.mu.Unlock()

	o.Post(event.GameEvent{Type: event.EventPlacementStart, Payload: &event.PlacementPayload{HandleID: id}})
	return true
}

// PostEjectLast enqueues an exit for the most recent ingredient in the vessel
func (o *Orchestrator) PostEjectLast() bool {
	contents := o.vessel.Contents()
	if len(contents) == 0 {
		return false
	}
	id := contents[len(contents)-1].ID()
	o.Post(event.GameEvent{Type: event.EventIngredientExit, Payload: &event.IngredientPayload{HandleID: id}})
	return true
}

// Dispatch drains the queue and handles every event in order
// Returns the number of events handled
func (o *Orchestrator) Dispatch() int {
	n := o.queue.Drain(o.handle)
	o.statDropped.Store(int64(o.queue.Dropped()))
	return n
}

// Run dispatches on every tick or wake until ctx or the orchestrator ends
func (o *Orchestrator) Run(ctx context.Context) error {
	ticker := time.NewTicker(o.opts.DispatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case <-o.ctx.Done():
			return ErrClosed
		case <-ticker.C:
		case <-o.wake:
		}
		o.Dispatch()
	}
}

// handle routes one event; failures are logged, interruptions are not failures
func (o *Orchestrator) handle(ev event.GameEvent) {
	var err error
	switch ev.Type {
	case event.EventPlacementStart:
		if id, ok := handleID(ev); ok {
			_, err = o.Place(id)
		}
	case event.EventMixTrigger:
		_, err = o.TriggerMix()
	case event.EventIngredientExit:
		if id, ok := handleID(ev); ok {
			err = o.IngredientExited(id)
		}
	case event.EventLevelRestart:
		_, err = o.RestartLevel()
	case event.EventLevelNext:
		_, err = o.NextLevel()
	default:
		o.log.Debug().Stringer("event", ev.Type).Msg("event not routed")
		return
	}

	if err != nil && !engine.IsInterruption(err) {
		o.log.Debug().Err(err).Stringer("event", ev.Type).Msg("event refused")
	}
}

func handleID(ev event.GameEvent) (uuid.UUID, bool) {
	switch p := ev.Payload.(type) {
	case *event.PlacementPayload:
		if p != nil {
			return p.HandleID, true
		}
	case *event.IngredientPayload:
		if p != nil {
			return p.HandleID, true
		}
	}
	return uuid.Nil, false
}
