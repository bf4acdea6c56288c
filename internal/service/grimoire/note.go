package grimoire

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"grimoires/internal/config"
	"grimoires/internal/domain"
	models "grimoires/internal/domain/models/grimoire"
	grimoireRepo "grimoires/internal/domain/repositories/grimoire"
	"grimoires/internal/domain/services"
	grimoireSvc "grimoires/internal/domain/services/grimoire"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// noteService implements the NoteService interface
type noteService struct {
	noteRepo   grimoireRepo.NoteRepository
	authorizer services.GameAuthorizer
	logger     *slog.Logger
}

// NewNoteService creates a new note service
func NewNoteService(
	noteRepo grimoireRepo.NoteRepository,
	authorizer services.GameAuthorizer,
	logger *slog.Logger,
) grimoireSvc.NoteService {
	return &noteService{
		noteRepo:   noteRepo,
		authorizer: authorizer,
		logger:     logger,
	}
}

// PutNote creates or replaces a note
func (s *noteService) PutNote(ctx context.Context, userID, gameID, nodeID string, req *grimoireSvc.PutNoteRequest) (*models.Note, error) {
	if err := s.validatePutRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if strings.TrimSpace(nodeID) == "" {
		return nil, fmt.Errorf("%w: node id is required", domain.ErrValidation)
	}
	if err := s.authorizer.CanAccessGame(ctx, userID, gameID); err != nil {
		return nil, err
	}

	note := &models.Note{
		GameID:   gameID,
		NodeID:   nodeID,
		FileType: strings.TrimSpace(req.FileType),
		Img:      req.Img,
		Data:     req.Data,
	}
	if err := s.noteRepo.Upsert(ctx, note); err != nil {
		return nil, err
	}

	s.logger.Debug("note saved",
		"game_id", gameID,
		"node_id", nodeID,
		"file_type", note.FileType,
		"bytes", len(note.Data),
	)

	return note, nil
}

// GetNote retrieves a note
func (s *noteService) GetNote(ctx context.Context, userID, gameID, nodeID string) (*models.Note, error) {
	if err := s.authorizer.CanAccessGame(ctx, userID, gameID); err != nil {
		return nil, err
	}
	return s.noteRepo.Get(ctx, gameID, nodeID)
}

// ListNotes retrieves the notes of a game
func (s *noteService) ListNotes(ctx context.Context, userID, gameID string, fileTypes []string) ([]models.Note, error) {
	if err := s.authorizer.CanAccessGame(ctx, userID, gameID); err != nil {
		return nil, err
	}

	var filter models.NoteFilter
	for _, ft := range fileTypes {
		if ft = strings.TrimSpace(ft); ft != "" {
			filter.FileTypes = append(filter.FileTypes, ft)
		}
	}

	notes, err := s.noteRepo.List(ctx, gameID, filter)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return notes, nil
}

// DeleteNote removes a note
func (s *noteService) DeleteNote(ctx context.Context, userID, gameID, nodeID string) error {
	if err := s.authorizer.CanAccessGame(ctx, userID, gameID); err != nil {
		return err
	}
	if err := s.noteRepo.Delete(ctx, gameID, nodeID); err != nil {
		return err
	}

	s.logger.Info("note deleted",
		"game_id", gameID,
		"node_id", nodeID,
		"user_id", userID,
	)

	return nil
}

// validatePutRequest validates a put note request
func (s *noteService) validatePutRequest(req *grimoireSvc.PutNoteRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Img, validation.RuneLength(0, config.MaxNoteImgLength)),
		validation.Field(&req.Data, validation.Length(0, config.MaxNoteDataBytes)),
	)
}
