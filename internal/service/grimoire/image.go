package grimoire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"grimoires/internal/domain"
	models "grimoires/internal/domain/models/grimoire"
	grimoireRepo "grimoires/internal/domain/repositories/grimoire"
	"grimoires/internal/domain/services"
	grimoireSvc "grimoires/internal/domain/services/grimoire"
	"grimoires/internal/imagestore"
)

// ImageStore persists picture bytes
type ImageStore interface {
	ImageURLResolver
	Save(ctx context.Context, folder string, r io.Reader) (string, error)
}

// imageService implements the ImageService interface
type imageService struct {
	store      ImageStore
	noteRepo   grimoireRepo.NoteRepository
	authorizer services.GameAuthorizer
	logger     *slog.Logger
}

// NewImageService creates a new image service
func NewImageService(
	store ImageStore,
	noteRepo grimoireRepo.NoteRepository,
	authorizer services.GameAuthorizer,
	logger *slog.Logger,
) grimoireSvc.ImageService {
	return &imageService{
		store:      store,
		noteRepo:   noteRepo,
		authorizer: authorizer,
		logger:     logger,
	}
}

// UploadImage stores a picture and points the node's note at it
func (s *imageService) UploadImage(ctx context.Context, userID, gameID string, req *grimoireSvc.UploadImageRequest) (string, error) {
	req.NodeID = strings.TrimSpace(req.NodeID)
	req.FileType = strings.TrimSpace(req.FileType)
	if req.NodeID == "" || req.FileType == "" || req.Body == nil {
		return "", fmt.Errorf("%w: image, type and id are required", domain.ErrValidation)
	}
	if err := s.authorizer.CanAccessGame(ctx, userID, gameID); err != nil {
		return "", err
	}

	img, err := s.store.Save(ctx, req.FileType, req.Body)
	if err != nil {
		if errors.Is(err, imagestore.ErrTooLarge) || errors.Is(err, imagestore.ErrUnsupportedType) || errors.Is(err, imagestore.ErrInvalidFolder) {
			return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		return "", err
	}

	err = s.noteRepo.UpdateImg(ctx, gameID, req.NodeID, img)
	if errors.Is(err, domain.ErrNotFound) {
		err = s.noteRepo.Upsert(ctx, &models.Note{
			GameID:   gameID,
			NodeID:   req.NodeID,
			FileType: req.FileType,
			Img:      img,
		})
	}
	if err != nil {
		return "", err
	}

	s.logger.Info("image uploaded",
		"game_id", gameID,
		"node_id", req.NodeID,
		"file_type", req.FileType,
		"img", img,
		"user_id", userID,
	)

	return s.store.URL(req.FileType, img), nil
}

// ImageURL resolves the picture of a node
func (s *imageService) ImageURL(ctx context.Context, userID, gameID, nodeID string) (string, error) {
	if err := s.authorizer.CanAccessGame(ctx, userID, gameID); err != nil {
		return "", err
	}

	note, err := s.noteRepo.Get(ctx, gameID, nodeID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.store.URL("", ""), nil
	}
	if err != nil {
		return "", err
	}
	return s.store.URL(note.FileType, note.Img), nil
}
