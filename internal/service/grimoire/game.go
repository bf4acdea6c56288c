package grimoire

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"grimoires/internal/config"
	"grimoires/internal/domain"
	models "grimoires/internal/domain/models/grimoire"
	grimoireRepo "grimoires/internal/domain/repositories/grimoire"
	"grimoires/internal/domain/services"
	grimoireSvc "grimoires/internal/domain/services/grimoire"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// gameService implements the GameService interface
type gameService struct {
	gameRepo   grimoireRepo.GameRepository
	authorizer services.GameAuthorizer
	logger     *slog.Logger
}

// NewGameService creates a new game service
func NewGameService(
	gameRepo grimoireRepo.GameRepository,
	authorizer services.GameAuthorizer,
	logger *slog.Logger,
) grimoireSvc.GameService {
	return &gameService{
		gameRepo:   gameRepo,
		authorizer: authorizer,
		logger:     logger,
	}
}

// CreateGame creates a new game
func (s *gameService) CreateGame(ctx context.Context, req *grimoireSvc.CreateGameRequest) (*models.Game, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	game := &models.Game{
		UserID:      req.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: normalizeDescription(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.gameRepo.Create(ctx, game); err != nil {
		return nil, err
	}

	s.logger.Info("game created",
		"id", game.ID,
		"name", game.Name,
		"user_id", req.UserID,
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (s *gameService) GetGame(ctx context.Context, id, userID string) (*models.Game, error) {
	if err := s.authorizer.CanAccessGame(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.gameRepo.GetByID(ctx, id)
}

// ListGames retrieves all games for a user
func (s *gameService) ListGames(ctx context.Context, userID string) ([]models.Game, error) {
	return s.gameRepo.List(ctx, userID)
}

// UpdateGame updates a game's name or description
func (s *gameService) UpdateGame(ctx context.Context, id, userID string, req *grimoireSvc.UpdateGameRequest) (*models.Game, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.authorizer.CanManageGame(ctx, userID, id); err != nil {
		return nil, err
	}

	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		game.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description.Present {
		game.Description = normalizeDescription(req.Description.Value)
	}
	game.UpdatedAt = time.Now()

	if err := s.gameRepo.Update(ctx, game); err != nil {
		return nil, err
	}

	s.logger.Info("game updated",
		"id", game.ID,
		"name", game.Name,
		"user_id", userID,
	)

	return game, nil
}

// DeleteGame soft-deletes a game
func (s *gameService) DeleteGame(ctx context.Context, id, userID string) (*models.Game, error) {
	if err := s.authorizer.CanManageGame(ctx, userID, id); err != nil {
		return nil, err
	}

	game, err := s.gameRepo.Delete(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("game deleted",
		"id", id,
		"user_id", userID,
	)

	return game, nil
}

// validateCreateRequest validates a create game request
func (s *gameService) validateCreateRequest(req *grimoireSvc.CreateGameRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.RuneLength(1, config.MaxGameNameLength),
			validation.By(notBlank),
		),
		validation.Field(&req.Description,
			validation.RuneLength(0, config.MaxGameDescriptionLength),
		),
	)
}

// validateUpdateRequest validates an update game request
func (s *gameService) validateUpdateRequest(req *grimoireSvc.UpdateGameRequest) error {
	if req.Name == nil && !req.Description.Present {
		return fmt.Errorf("nothing to update")
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.NilOrNotEmpty,
			validation.RuneLength(1, config.MaxGameNameLength),
			validation.By(notBlank),
		),
		validation.Field(&req.Description,
			validation.By(func(value interface{}) error {
				d := value.(grimoireSvc.OptionalDescription)
				if d.Value != nil && len([]rune(*d.Value)) > config.MaxGameDescriptionLength {
					return fmt.Errorf("must be at most %d characters", config.MaxGameDescriptionLength)
				}
				return nil
			}),
		),
	)
}

// notBlank rejects strings that are empty after trimming
func notBlank(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	default:
		return fmt.Errorf("must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("cannot be blank")
	}
	return nil
}

// normalizeDescription trims a description; blank becomes nil
func normalizeDescription(d *string) *string {
	if d == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*d)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
