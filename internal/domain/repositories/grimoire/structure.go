package grimoire

import (
	"context"

	"grimoires/internal/domain/models/grimoire"
)

// StructureRepository stores one tree document per (game, type)
type StructureRepository interface {
	// Get returns the stored structure, or ErrNotFound when never saved
	Get(ctx context.Context, gameID, structureType string) (*grimoire.Structure, error)

	// GetForUpdate is Get plus a row lock held until the surrounding
	// transaction ends. Outside a transaction it behaves like Get.
	GetForUpdate(ctx context.Context, gameID, structureType string) (*grimoire.Structure, error)

	// Upsert replaces the whole document and refreshes UpdatedAt
	Upsert(ctx context.Context, structure *grimoire.Structure) error
}
