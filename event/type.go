package event

// EventType represents the type of game event
type EventType int

const (
	// EventNone is the zero value, never queued
	EventNone EventType = iota

	// === Input Events ===

	// EventPlacementStart requests moving a shelf ingredient into the vessel
	// Trigger: Input (slot key) | Consumer: Orchestrator | Payload: *PlacementPayload
	EventPlacementStart

	// EventMixTrigger requests mixing the vessel content
	// Trigger: Input (mix key) | Consumer: Orchestrator | Payload: nil
	EventMixTrigger

	// EventIngredientExit reports an ingredient leaving the vessel volume
	// Trigger: Physics collaborator | Consumer: Orchestrator | Payload: *IngredientPayload
	EventIngredientExit

	// EventLevelRestart restarts the current level
	// Trigger: Input | Consumer: Orchestrator | Payload: nil
	EventLevelRestart

	// EventLevelNext advances to the next level once the last mix passed
	// Trigger: Input | Consumer: Orchestrator | Payload: nil
	EventLevelNext

	// === Session Phase Events ===
	// Emitted by the orchestrator into its own phase machine

	// EventMoveComplete: current placement reached the vessel
	EventMoveComplete

	// EventSettleComplete: current placement closed the lid
	EventSettleComplete

	// EventMixStart: last movement resolved, mix sequence begins
	EventMixStart

	// EventMixComplete: results reported
	EventMixComplete

	// EventMixAborted: mix refused by the vessel
	EventMixAborted

	// EventLevelReset: scene reset for a new level
	EventLevelReset
)

// GameEvent is one queued event
type GameEvent struct {
	Type    EventType
	Payload any
}

// String returns the registered name
func (et EventType) String() string {
	if name := GetEventName(et); name != "" {
		return name
	}
	return "Unknown"
}
