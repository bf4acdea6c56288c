// Package service assembles the domain services on top of a repository set.
package service

import (
	"fmt"
	"log/slog"

	"grimoires/internal/config"
	chatSvc "grimoires/internal/domain/services/chat"
	grimoireSvc "grimoires/internal/domain/services/grimoire"
	"grimoires/internal/imagestore"
	"grimoires/internal/repository"
	"grimoires/internal/rules"
	"grimoires/internal/service/auth"
	"grimoires/internal/service/chat"
	"grimoires/internal/service/grimoire"
)

// Services holds every domain service
type Services struct {
	Games      grimoireSvc.GameService
	Structures grimoireSvc.StructureService
	Notes      grimoireSvc.NoteService
	References grimoireSvc.ReferenceService
	Characters grimoireSvc.CharacterService
	Images     grimoireSvc.ImageService
	Chat       chatSvc.ChatService
}

// SetupRules loads the embedded rules, replaced by cfg.RulesFile when set
func SetupRules(cfg *config.Config, logger *slog.Logger) (*rules.Registry, error) {
	registry, err := rules.NewRegistry()
	if err != nil {
		return nil, err
	}
	if cfg.RulesFile != "" {
		if err := registry.LoadFile(cfg.RulesFile); err != nil {
			return nil, err
		}
		logger.Info("rules loaded from file", "path", cfg.RulesFile)
	}
	return registry, nil
}

// SetupImageStore opens the picture directory
func SetupImageStore(cfg *config.Config, registry *rules.Registry) (*imagestore.Store, error) {
	store, err := imagestore.New(cfg.ImageDir, cfg.ImageBaseURL, registry.Rules().Character.DefaultImage, config.MaxImageBytes)
	if err != nil {
		return nil, fmt.Errorf("open image store: %w", err)
	}
	return store, nil
}

// SetupServices wires the services. The chat limiter follows
// cfg.ChatRatePerMinute and cfg.ChatBurst.
func SetupServices(
	repos *repository.Set,
	registry *rules.Registry,
	images *imagestore.Store,
	cfg *config.Config,
	logger *slog.Logger,
) *Services {
	authorizer := auth.NewOwnerBasedAuthorizer(repos.Games)
	chatService := chat.NewService(repos.Messages, chat.NewHub(), authorizer, logger,
		chat.WithLimiter(chat.NewLimiter(cfg.ChatRatePerMinute, cfg.ChatBurst)),
	)
	references := grimoire.NewReferenceService(repos.Notes, registry, authorizer, logger)

	return &Services{
		Games:      grimoire.NewGameService(repos.Games, authorizer, logger),
		Structures: grimoire.NewStructureService(repos.Structures, repos.Notes, repos.Tx, authorizer, logger),
		Notes:      grimoire.NewNoteService(repos.Notes, authorizer, logger),
		References: references,
		Characters: grimoire.NewCharacterService(repos.Notes, references, chatService, images, registry, authorizer, logger),
		Images:     grimoire.NewImageService(images, repos.Notes, authorizer, logger),
		Chat:       chatService,
	}
}
