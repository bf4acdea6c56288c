package grimoire

import (
	"context"

	"grimoires/internal/domain/models/grimoire"
)

// GameRepository defines data access operations for games
type GameRepository interface {
	// Create creates a new game and fills its generated ID and timestamps
	Create(ctx context.Context, game *grimoire.Game) error

	// GetByID retrieves a live (not soft-deleted) game regardless of owner
	GetByID(ctx context.Context, id string) (*grimoire.Game, error)

	// List retrieves all games owned by a user, ordered by updated_at DESC
	List(ctx context.Context, userID string) ([]grimoire.Game, error)

	// Update updates name, description and updated_at of an owned game
	Update(ctx context.Context, game *grimoire.Game) error

	// Delete soft-deletes an owned game and returns it with deleted_at set
	Delete(ctx context.Context, id, userID string) (*grimoire.Game, error)
}
