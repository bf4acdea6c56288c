package chat

import (
	"time"

	"grimoires/internal/dice"
)

// Message is one line of a game's chat. Roll is set when the content was a
// dice command.
type Message struct {
	ID        string       `json:"id" db:"id"`
	GameID    string       `json:"game_id" db:"game_id"`
	UserID    string       `json:"user_id" db:"user_id"`
	Author    string       `json:"author" db:"author"`
	Label     string       `json:"label,omitempty" db:"label"` // roll label, e.g. "adresse", "attaque"
	Content   string       `json:"content" db:"content"`
	Roll      *dice.Result `json:"roll,omitempty" db:"roll"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// Cursor marks the oldest message a client has seen. History is ordered by
// (CreatedAt, ID); IDs are time ordered, so messages posted in the same
// instant keep their posting order.
type Cursor struct {
	CreatedAt time.Time
	ID        string // empty: every message at CreatedAt is excluded
}

// Precedes reports whether m comes strictly before the cursor in history.
func (c Cursor) Precedes(m Message) bool {
	if m.CreatedAt.Equal(c.CreatedAt) {
		return c.ID != "" && m.ID < c.ID
	}
	return m.CreatedAt.Before(c.CreatedAt)
}

// ListOptions pages through a game's history, newest first
type ListOptions struct {
	Limit  int
	Before *Cursor
}
