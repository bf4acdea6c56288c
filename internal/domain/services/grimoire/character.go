package grimoire

import (
	"context"

	"grimoires/internal/domain/models/chat"
	"grimoires/internal/domain/models/grimoire"
)

// CharacterService derives and persists character sheets and turns sheet
// actions into chat dice rolls.
type CharacterService interface {
	GetSheet(ctx context.Context, userID, gameID, nodeID string) (*grimoire.CharacterSheet, error)
	SaveSheet(ctx context.Context, userID, gameID, nodeID string, inputs *grimoire.CharacterInputs) (*grimoire.CharacterSheet, error)

	// PreviewSheet derives values for unsaved inputs
	PreviewSheet(ctx context.Context, userID, gameID string, inputs *grimoire.CharacterInputs) (*grimoire.CharacterSheet, error)

	// RollTrait posts "/r 1d20 + total" for one trait
	RollTrait(ctx context.Context, userID, gameID, nodeID, trait string) (*chat.Message, error)

	// Attack posts the attack roll, then the damage roll when the weapon has one
	Attack(ctx context.Context, userID, gameID, nodeID string) ([]chat.Message, error)
}
