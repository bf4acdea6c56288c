package chat

import (
	"context"

	"grimoires/internal/domain/models/chat"
)

// MessageRepository defines data access operations for chat messages
type MessageRepository interface {
	// Create stores a message, filling ID and CreatedAt when empty
	Create(ctx context.Context, msg *chat.Message) error

	// List returns a game's messages newest first
	List(ctx context.Context, gameID string, opts chat.ListOptions) ([]chat.Message, error)
}
