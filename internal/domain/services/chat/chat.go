package chat

import (
	"context"

	"grimoires/internal/domain/models/chat"
)

// PostMessageRequest posts a line to a game's chat
type PostMessageRequest struct {
	GameID  string `json:"-"`
	UserID  string `json:"-"`
	Author  string `json:"author"`
	Label   string `json:"label"`
	Content string `json:"content"`
}

// ChatService defines the chat operations
type ChatService interface {
	// PostMessage stores and broadcasts a message, rolling it when it is a
	// dice command
	PostMessage(ctx context.Context, req *PostMessageRequest) (*chat.Message, error)

	// ListMessages returns history newest first, older than before when given
	ListMessages(ctx context.Context, userID, gameID string, limit int, before *chat.Cursor) ([]chat.Message, error)

	// Subscribe streams new messages of a game until cancel is called
	Subscribe(ctx context.Context, userID, gameID string) (<-chan chat.Message, func(), error)
}
