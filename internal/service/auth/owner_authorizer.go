package auth

import (
	"context"
	"errors"
	"fmt"

	"grimoires/internal/domain"
	grimoireRepo "grimoires/internal/domain/repositories/grimoire"
)

// OwnerBasedAuthorizer implements GameAuthorizer using ownership checks.
// Anyone holding a game ID may use its content; only the owner may manage it.
type OwnerBasedAuthorizer struct {
	gameRepo grimoireRepo.GameRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(gameRepo grimoireRepo.GameRepository) *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{gameRepo: gameRepo}
}

// CanAccessGame checks that the game exists
func (a *OwnerBasedAuthorizer) CanAccessGame(ctx context.Context, userID, gameID string) error {
	if userID == "" {
		return fmt.Errorf("access to game %s: %w", gameID, domain.ErrUnauthorized)
	}
	if _, err := a.gameRepo.GetByID(ctx, gameID); err != nil {
		return fmt.Errorf("check game access: %w", err)
	}
	return nil
}

// CanManageGame checks that the user owns the game
func (a *OwnerBasedAuthorizer) CanManageGame(ctx context.Context, userID, gameID string) error {
	game, err := a.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("check game ownership: %w", err)
	}
	if game.UserID != userID {
		return fmt.Errorf("manage game %s: %w", gameID, domain.ErrForbidden)
	}
	return nil
}
