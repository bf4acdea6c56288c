package grimoire

import (
	"context"

	"grimoires/internal/domain/models/grimoire"
)

// PutNoteRequest creates or replaces the note behind a node
type PutNoteRequest struct {
	FileType string `json:"file_type"`
	Img      string `json:"img"`
	Data     string `json:"data"`
}

// NoteService defines business logic operations for notes
type NoteService interface {
	PutNote(ctx context.Context, userID, gameID, nodeID string, req *PutNoteRequest) (*grimoire.Note, error)
	GetNote(ctx context.Context, userID, gameID, nodeID string) (*grimoire.Note, error)

	// ListNotes returns the game's notes, restricted to fileTypes when given
	ListNotes(ctx context.Context, userID, gameID string, fileTypes []string) ([]grimoire.Note, error)

	DeleteNote(ctx context.Context, userID, gameID, nodeID string) error
}
