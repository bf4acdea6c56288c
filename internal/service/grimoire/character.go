package grimoire

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"grimoires/internal/config"
	"grimoires/internal/dice"
	"grimoires/internal/domain"
	chatModels "grimoires/internal/domain/models/chat"
	models "grimoires/internal/domain/models/grimoire"
	grimoireRepo "grimoires/internal/domain/repositories/grimoire"
	"grimoires/internal/domain/services"
	chatSvc "grimoires/internal/domain/services/chat"
	grimoireSvc "grimoires/internal/domain/services/grimoire"
	"grimoires/internal/rules"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ImageURLResolver turns a stored image reference into a public URL
type ImageURLResolver interface {
	URL(fileType, img string) string
}

// characterService implements the CharacterService interface
type characterService struct {
	noteRepo   grimoireRepo.NoteRepository
	references grimoireSvc.ReferenceService
	chat       chatSvc.ChatService
	images     ImageURLResolver
	rules      *rules.Registry
	authorizer services.GameAuthorizer
	logger     *slog.Logger
}

// NewCharacterService creates a new character sheet service
func NewCharacterService(
	noteRepo grimoireRepo.NoteRepository,
	references grimoireSvc.ReferenceService,
	chat chatSvc.ChatService,
	images ImageURLResolver,
	registry *rules.Registry,
	authorizer services.GameAuthorizer,
	logger *slog.Logger,
) grimoireSvc.CharacterService {
	return &characterService{
		noteRepo:   noteRepo,
		references: references,
		chat:       chat,
		images:     images,
		rules:      registry,
		authorizer: authorizer,
		logger:     logger,
	}
}

// GetSheet loads a sheet. A node without a saved sheet yields a blank one.
func (s *characterService) GetSheet(ctx context.Context, userID, gameID, nodeID string) (*models.CharacterSheet, error) {
	inputs, img, err := s.loadInputs(ctx, userID, gameID, nodeID)
	if err != nil {
		return nil, err
	}
	return s.sheet(ctx, userID, gameID, nodeID, inputs, img)
}

// SaveSheet validates and stores the inputs of a sheet
func (s *characterService) SaveSheet(ctx context.Context, userID, gameID, nodeID string, inputs *models.CharacterInputs) (*models.CharacterSheet, error) {
	if strings.TrimSpace(nodeID) == "" {
		return nil, fmt.Errorf("%w: node id is required", domain.ErrValidation)
	}
	if err := s.normalize(inputs); err != nil {
		return nil, err
	}
	if err := s.authorizer.CanAccessGame(ctx, userID, gameID); err != nil {
		return nil, err
	}

	data, err := json.Marshal(inputs)
	if err != nil {
		return nil, fmt.Errorf("encode character sheet: %w", err)
	}

	img := ""
	existing, err := s.noteRepo.Get(ctx, gameID, nodeID)
	switch {
	case err == nil:
		if err := s.checkCharacterNote(existing); err != nil {
			return nil, err
		}
		img = existing.Img
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	note := &models.Note{
		GameID:   gameID,
		NodeID:   nodeID,
		FileType: s.rules.Rules().Character.FileType,
		Img:      img,
		Data:     string(data),
	}
	if err := s.noteRepo.Upsert(ctx, note); err != nil {
		return nil, err
	}

	s.logger.Info("character sheet saved",
		"game_id", gameID,
		"node_id", nodeID,
		"name", inputs.Name,
		"user_id", userID,
	)

	return s.sheet(ctx, userID, gameID, nodeID, inputs, img)
}

// PreviewSheet derives values without storing anything
func (s *characterService) PreviewSheet(ctx context.Context, userID, gameID string, inputs *models.CharacterInputs) (*models.CharacterSheet, error) {
	if err := s.normalize(inputs); err != nil {
		return nil, err
	}
	return s.sheet(ctx, userID, gameID, "", inputs, "")
}

// RollTrait posts a d20 check for one trait
func (s *characterService) RollTrait(ctx context.Context, userID, gameID, nodeID, trait string) (*chatModels.Message, error) {
	trait = strings.TrimSpace(trait)
	if !rules.IsTrait(trait) {
		return nil, fmt.Errorf("%w: unknown trait %q", domain.ErrValidation, trait)
	}

	sheet, err := s.GetSheet(ctx, userID, gameID, nodeID)
	if err != nil {
		return nil, err
	}

	return s.chat.PostMessage(ctx, &chatSvc.PostMessageRequest{
		GameID:  gameID,
		UserID:  userID,
		Author:  sheet.Inputs.Name,
		Label:   trait,
		Content: dice.Check(traitTotal(sheet.Derived, trait)).Command(),
	})
}

// Attack posts the attack roll, then the damage roll when there is one
func (s *characterService) Attack(ctx context.Context, userID, gameID, nodeID string) ([]chatModels.Message, error) {
	sheet, err := s.GetSheet(ctx, userID, gameID, nodeID)
	if err != nil {
		return nil, err
	}
	labels := s.rules.Rules().Labels

	attack, err := s.chat.PostMessage(ctx, &chatSvc.PostMessageRequest{
		GameID:  gameID,
		UserID:  userID,
		Author:  sheet.Inputs.Name,
		Label:   labels.Attack,
		Content: sheet.Derived.AttackRoll,
	})
	if err != nil {
		return nil, err
	}
	messages := []chatModels.Message{*attack}

	if sheet.Derived.DamageRoll != "" {
		damage, err := s.chat.PostMessage(ctx, &chatSvc.PostMessageRequest{
			GameID:  gameID,
			UserID:  userID,
			Author:  sheet.Inputs.Name,
			Label:   labels.Damage,
			Content: sheet.Derived.DamageRoll,
		})
		if err != nil {
			return messages, err
		}
		messages = append(messages, *damage)
	}

	return messages, nil
}

func (s *characterService) loadInputs(ctx context.Context, userID, gameID, nodeID string) (*models.CharacterInputs, string, error) {
	if err := s.authorizer.CanAccessGame(ctx, userID, gameID); err != nil {
		return nil, "", err
	}

	note, err := s.noteRepo.Get(ctx, gameID, nodeID)
	if errors.Is(err, domain.ErrNotFound) {
		inputs := &models.CharacterInputs{}
		_ = s.normalize(inputs)
		return inputs, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	if err := s.checkCharacterNote(note); err != nil {
		return nil, "", err
	}

	inputs := &models.CharacterInputs{}
	if strings.TrimSpace(note.Data) != "" {
		if err := json.Unmarshal([]byte(note.Data), inputs); err != nil {
			return nil, "", fmt.Errorf("%w: stored character sheet is malformed: %v", domain.ErrValidation, err)
		}
	}
	if rs := s.rules.Rules().Character; len(inputs.Wounds) > rs.WoundSlots {
		inputs.Wounds = inputs.Wounds[:rs.WoundSlots]
	}
	if err := s.normalize(inputs); err != nil {
		s.logger.Warn("stored character sheet does not match rules",
			"game_id", gameID,
			"node_id", nodeID,
			"error", err,
		)
	}
	return inputs, note.Img, nil
}

// checkCharacterNote rejects notes of another type stored on the same node
func (s *characterService) checkCharacterNote(note *models.Note) error {
	if note.FileType != s.rules.Rules().Character.FileType {
		return fmt.Errorf("%w: node %s holds a %q note, not a character sheet", domain.ErrValidation, note.NodeID, note.FileType)
	}
	return nil
}

func (s *characterService) sheet(ctx context.Context, userID, gameID, nodeID string, inputs *models.CharacterInputs, img string) (*models.CharacterSheet, error) {
	ref, err := s.references.Load(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}

	rs := s.rules.Rules()
	if img == "" {
		img = inputs.Image
	}
	return &models.CharacterSheet{
		GameID:   gameID,
		NodeID:   nodeID,
		Inputs:   *inputs,
		Derived:  Derive(rs, inputs, ref),
		ImageURL: s.images.URL(rs.Character.FileType, img),
	}, nil
}

// normalize trims text fields, clamps the level and traits, and sizes the
// wound track
func (s *characterService) normalize(in *models.CharacterInputs) error {
	rs := s.rules.Rules().Character

	in.Name = strings.TrimSpace(in.Name)
	in.ClassType = strings.TrimSpace(in.ClassType)
	in.Species = strings.TrimSpace(in.Species)
	in.Background = strings.TrimSpace(in.Background)
	in.Image = strings.TrimSpace(in.Image)

	switch {
	case int(in.Level) < rs.MinLevel:
		in.Level = models.FlexInt(rs.MinLevel)
	case int(in.Level) > rs.MaxLevel:
		in.Level = models.FlexInt(rs.MaxLevel)
	}
	for _, trait := range []*models.FlexInt{&in.Address, &in.Spirit, &in.Power} {
		*trait = max(-config.MaxTraitValue, min(*trait, config.MaxTraitValue))
	}

	if err := validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.RuneLength(0, config.MaxNodeNameLength)),
		validation.Field(&in.ClassType, validation.RuneLength(0, config.MaxNodeNameLength)),
		validation.Field(&in.Species, validation.RuneLength(0, config.MaxNodeNameLength)),
		validation.Field(&in.Background, validation.RuneLength(0, config.MaxNodeNameLength)),
		validation.Field(&in.Image, validation.RuneLength(0, config.MaxNodeNameLength)),
		validation.Field(&in.Wounds, validation.Length(0, rs.WoundSlots)),
	); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	for len(in.Wounds) < rs.WoundSlots {
		in.Wounds = append(in.Wounds, false)
	}
	if in.Equipment == nil {
		in.Equipment = []string{}
	}
	return nil
}
