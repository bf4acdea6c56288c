package services

import "context"

// GameAuthorizer checks whether a user may touch a game.
//
// Game content is shared by link: any authenticated user who knows a game ID
// may read and write its structures, notes, sheets and chat. Managing the
// game itself (rename, delete) is reserved to its owner.
type GameAuthorizer interface {
	// CanAccessGame succeeds when the game exists and is not deleted
	CanAccessGame(ctx context.Context, userID, gameID string) error

	// CanManageGame succeeds when the user owns the game
	CanManageGame(ctx context.Context, userID, gameID string) error
}
