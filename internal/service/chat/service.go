package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"grimoires/internal/config"
	"grimoires/internal/dice"
	"grimoires/internal/domain"
	models "grimoires/internal/domain/models/chat"
	chatRepo "grimoires/internal/domain/repositories/chat"
	"grimoires/internal/domain/services"
	chatSvc "grimoires/internal/domain/services/chat"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Option configures the chat service
type Option func(*chatService)

// WithSeedSource replaces the dice seed source (tests use a fixed seed)
func WithSeedSource(seed func() int64) Option {
	return func(s *chatService) { s.seed = seed }
}

// WithLimiter enables per-user posting limits
func WithLimiter(l *Limiter) Option {
	return func(s *chatService) { s.limiter = l }
}

// chatService implements the ChatService interface
type chatService struct {
	messageRepo chatRepo.MessageRepository
	hub         *Hub
	limiter     *Limiter
	authorizer  services.GameAuthorizer
	seed        func() int64
	logger      *slog.Logger
}

// NewService creates a new chat service
func NewService(
	messageRepo chatRepo.MessageRepository,
	hub *Hub,
	authorizer services.GameAuthorizer,
	logger *slog.Logger,
	opts ...Option,
) chatSvc.ChatService {
	s := &chatService{
		messageRepo: messageRepo,
		hub:         hub,
		authorizer:  authorizer,
		seed:        func() int64 { return time.Now().UnixNano() },
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PostMessage stores a message, rolls it when it is a dice command and
// broadcasts it to the game's subscribers.
func (s *chatService) PostMessage(ctx context.Context, req *chatSvc.PostMessageRequest) (*models.Message, error) {
	req.Content = plainText(req.Content)
	req.Author = plainText(req.Author)
	req.Label = plainText(req.Label)

	if err := s.validatePostRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := s.authorizer.CanAccessGame(ctx, req.UserID, req.GameID); err != nil {
		return nil, err
	}
	if s.limiter != nil {
		if err := s.limiter.Allow(req.UserID); err != nil {
			s.logger.Warn("chat rate limit hit",
				"game_id", req.GameID,
				"user_id", req.UserID,
			)
			return nil, err
		}
	}

	msg := &models.Message{
		GameID:  req.GameID,
		UserID:  req.UserID,
		Author:  req.Author,
		Label:   req.Label,
		Content: req.Content,
	}
	if msg.Author == "" {
		msg.Author = req.UserID
	}

	if dice.IsCommand(req.Content) {
		result, err := dice.RollCommand(req.Content, s.seed())
		if err != nil {
			if errors.Is(err, dice.ErrEmptyExpression) || errors.Is(err, dice.ErrInvalidExpression) || errors.Is(err, dice.ErrLimitExceeded) {
				return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
			}
			return nil, err
		}
		msg.Roll = &result
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	if dropped := s.hub.Publish(*msg); dropped > 0 {
		s.logger.Warn("chat subscribers lagging, message dropped",
			"game_id", msg.GameID,
			"message_id", msg.ID,
			"dropped", dropped,
		)
	}

	if msg.Roll != nil {
		s.logger.Info("dice rolled",
			"game_id", msg.GameID,
			"user_id", msg.UserID,
			"expression", msg.Roll.Expression,
			"total", msg.Roll.Total,
		)
	}

	return msg, nil
}

// ListMessages returns history newest first
func (s *chatService) ListMessages(ctx context.Context, userID, gameID string, limit int, before *models.Cursor) ([]models.Message, error) {
	if before != nil && before.ID != "" {
		if _, err := uuid.Parse(before.ID); err != nil {
			return nil, fmt.Errorf("%w: before_id must be a message id", domain.ErrValidation)
		}
	}
	if err := s.authorizer.CanAccessGame(ctx, userID, gameID); err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = config.DefaultChatPageSize
	case limit > config.MaxChatPageSize:
		limit = config.MaxChatPageSize
	}

	messages, err := s.messageRepo.List(ctx, gameID, models.ListOptions{Limit: limit, Before: before})
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// Subscribe streams new messages of a game
func (s *chatService) Subscribe(ctx context.Context, userID, gameID string) (<-chan models.Message, func(), error) {
	if err := s.authorizer.CanAccessGame(ctx, userID, gameID); err != nil {
		return nil, nil, err
	}

	ch, cancel := s.hub.Subscribe(gameID)
	s.logger.Debug("chat subscriber joined",
		"game_id", gameID,
		"user_id", userID,
		"subscribers", s.hub.Subscribers(gameID),
	)
	return ch, cancel, nil
}

// validatePostRequest validates a post message request
func (s *chatService) validatePostRequest(req *chatSvc.PostMessageRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.GameID, validation.Required),
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Content,
			validation.Required,
			validation.RuneLength(1, config.MaxChatMessageLength),
		),
		validation.Field(&req.Author, validation.RuneLength(0, config.MaxChatAuthorLength)),
		validation.Field(&req.Label, validation.RuneLength(0, config.MaxChatAuthorLength)),
	)
}
