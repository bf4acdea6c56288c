package grimoire

import (
	"context"

	"grimoires/internal/domain/models/grimoire"
)

// NoteRepository defines data access operations for notes
type NoteRepository interface {
	// Upsert creates or replaces the note of (game, node). UpdatedAt is
	// stamped on every write, CreatedAt only when the row is inserted.
	Upsert(ctx context.Context, note *grimoire.Note) error

	// Get retrieves the note backing a node
	Get(ctx context.Context, gameID, nodeID string) (*grimoire.Note, error)

	// List retrieves a game's notes, ordered by id
	List(ctx context.Context, gameID string, filter grimoire.NoteFilter) ([]grimoire.Note, error)

	// UpdateImg sets only the img column of an existing note
	UpdateImg(ctx context.Context, gameID, nodeID, img string) error

	// Delete removes the note of a node. Missing notes are not an error.
	Delete(ctx context.Context, gameID, nodeID string) error
}
