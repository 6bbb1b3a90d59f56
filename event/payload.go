package event

import "github.com/google/uuid"

// PlacementPayload names the shelf ingredient to place
type PlacementPayload struct {
	HandleID uuid.UUID `toml:"handle_id"`
}

// IngredientPayload names an ingredient involved in a proximity event
type IngredientPayload struct {
	HandleID uuid.UUID `toml:"handle_id"`
}
