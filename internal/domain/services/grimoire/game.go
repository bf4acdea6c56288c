package grimoire

import (
	"context"

	"grimoires/internal/domain/models/grimoire"
)

// CreateGameRequest represents a request to create a game
type CreateGameRequest struct {
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// OptionalDescription tracks tri-state PATCH semantics for the description.
//   - Present=false: field absent (don't change)
//   - Present=true, Value=nil: clear
//   - Present=true, Value!=nil: set
type OptionalDescription struct {
	Present bool
	Value   *string
}

// UpdateGameRequest represents a partial update of a game
type UpdateGameRequest struct {
	Name        *string
	Description OptionalDescription
}

// GameService defines business logic operations for games
type GameService interface {
	CreateGame(ctx context.Context, req *CreateGameRequest) (*grimoire.Game, error)

	// GetGame retrieves a game by ID (any authenticated user)
	GetGame(ctx context.Context, id, userID string) (*grimoire.Game, error)

	// ListGames retrieves the games owned by a user
	ListGames(ctx context.Context, userID string) ([]grimoire.Game, error)

	// UpdateGame renames a game or changes its description (owner only)
	UpdateGame(ctx context.Context, id, userID string, req *UpdateGameRequest) (*grimoire.Game, error)

	// DeleteGame soft-deletes a game (owner only) and returns it
	DeleteGame(ctx context.Context, id, userID string) (*grimoire.Game, error)
}
