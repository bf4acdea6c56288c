package grimoire

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"grimoires/internal/domain"
	models "grimoires/internal/domain/models/grimoire"
	grimoireRepo "grimoires/internal/domain/repositories/grimoire"
	"grimoires/internal/domain/services"
	grimoireSvc "grimoires/internal/domain/services/grimoire"
	"grimoires/internal/rules"

	"golang.org/x/text/cases"
)

// referenceService implements the ReferenceService interface
type referenceService struct {
	noteRepo   grimoireRepo.NoteRepository
	rules      *rules.Registry
	authorizer services.GameAuthorizer
	logger     *slog.Logger
}

// NewReferenceService creates a new reference table service
func NewReferenceService(
	noteRepo grimoireRepo.NoteRepository,
	registry *rules.Registry,
	authorizer services.GameAuthorizer,
	logger *slog.Logger,
) grimoireSvc.ReferenceService {
	return &referenceService{
		noteRepo:   noteRepo,
		rules:      registry,
		authorizer: authorizer,
		logger:     logger,
	}
}

// ListProfiles returns the profile table
func (s *referenceService) ListProfiles(ctx context.Context, userID, gameID string) ([]models.Profile, error) {
	if err := s.authorizer.CanAccessGame(ctx, userID, gameID); err != nil {
		return nil, err
	}
	return s.profiles(ctx, gameID)
}

// ListRaces returns the race table
func (s *referenceService) ListRaces(ctx context.Context, userID, gameID string) ([]models.Race, error) {
	if err := s.authorizer.CanAccessGame(ctx, userID, gameID); err != nil {
		return nil, err
	}
	return s.races(ctx, gameID)
}

// ListItems returns the equipment table
func (s *referenceService) ListItems(ctx context.Context, userID, gameID string) ([]models.Item, error) {
	if err := s.authorizer.CanAccessGame(ctx, userID, gameID); err != nil {
		return nil, err
	}
	return s.items(ctx, gameID)
}

// GetCapacities groups the capacities of a profile by path
func (s *referenceService) GetCapacities(ctx context.Context, userID, gameID, profileName string) (map[string][]models.Capacity, error) {
	profiles, err := s.ListProfiles(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}

	profile := findProfile(profiles, profileName)
	if profile == nil {
		return nil, fmt.Errorf("profile %q: %w", profileName, domain.ErrNotFound)
	}
	return profile.CapacitiesByPath(), nil
}

// Load reads the three tables
func (s *referenceService) Load(ctx context.Context, userID, gameID string) (*grimoireSvc.ReferenceData, error) {
	if err := s.authorizer.CanAccessGame(ctx, userID, gameID); err != nil {
		return nil, err
	}
	return s.load(ctx, gameID)
}

func (s *referenceService) load(ctx context.Context, gameID string) (*grimoireSvc.ReferenceData, error) {
	profiles, err := s.profiles(ctx, gameID)
	if err != nil {
		return nil, err
	}
	races, err := s.races(ctx, gameID)
	if err != nil {
		return nil, err
	}
	items, err := s.items(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return &grimoireSvc.ReferenceData{Profiles: profiles, Races: races, Items: items}, nil
}

func (s *referenceService) profiles(ctx context.Context, gameID string) ([]models.Profile, error) {
	notes, err := s.notes(ctx, gameID, s.rules.Rules().Reference.ProfileFileType)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.Profile, 0, len(notes))
	for _, n := range notes {
		p, err := models.ParseProfile(n.Data)
		if err != nil {
			s.skip(n, err)
			continue
		}
		profiles = append(profiles, *p)
	}
	return profiles, nil
}

func (s *referenceService) races(ctx context.Context, gameID string) ([]models.Race, error) {
	notes, err := s.notes(ctx, gameID, s.rules.Rules().Reference.RaceFileType)
	if err != nil {
		return nil, err
	}

	races := make([]models.Race, 0, len(notes))
	for _, n := range notes {
		r, err := models.ParseRace(n.Data)
		if err != nil {
			s.skip(n, err)
			continue
		}
		races = append(races, *r)
	}
	return races, nil
}

func (s *referenceService) items(ctx context.Context, gameID string) ([]models.Item, error) {
	notes, err := s.notes(ctx, gameID, s.rules.Rules().Reference.ItemTypes...)
	if err != nil {
		return nil, err
	}

	items := make([]models.Item, 0, len(notes))
	for _, n := range notes {
		it, err := models.ParseItem(n.Data, n.FileType)
		if err != nil {
			s.skip(n, err)
			continue
		}
		if !s.rules.IsItemType(it.FileType) {
			s.logger.Warn("skipping item with unknown type",
				"game_id", n.GameID,
				"node_id", n.NodeID,
				"item_type", it.FileType,
			)
			continue
		}
		items = append(items, *it)
	}
	return items, nil
}

func (s *referenceService) notes(ctx context.Context, gameID string, fileTypes ...string) ([]models.Note, error) {
	notes, err := s.noteRepo.List(ctx, gameID, models.NoteFilter{FileTypes: fileTypes})
	if err != nil {
		return nil, fmt.Errorf("load reference notes: %w", err)
	}
	return notes, nil
}

func (s *referenceService) skip(n models.Note, err error) {
	s.logger.Warn("skipping malformed reference record",
		"game_id", n.GameID,
		"node_id", n.NodeID,
		"file_type", n.FileType,
		"error", err,
	)
}

// sameName matches exactly first, then ignoring case
func sameName(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == b {
		return true
	}
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}

func findProfile(profiles []models.Profile, name string) *models.Profile {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	for i := range profiles {
		if profiles[i].Name == name {
			return &profiles[i]
		}
	}
	for i := range profiles {
		if sameName(profiles[i].Name, name) {
			return &profiles[i]
		}
	}
	return nil
}

func findRace(races []models.Race, name string) *models.Race {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	for i := range races {
		if races[i].Name == name {
			return &races[i]
		}
	}
	for i := range races {
		if sameName(races[i].Name, name) {
			return &races[i]
		}
	}
	return nil
}

// equipped returns the items whose name appears in equipment, in table
// order. Names must match exactly: "Cuir" and "cuir" are different items.
func equipped(items []models.Item, equipment []string) []models.Item {
	worn := make(map[string]struct{}, len(equipment))
	for _, name := range equipment {
		worn[name] = struct{}{}
	}

	var out []models.Item
	for _, it := range items {
		if _, ok := worn[it.Name]; ok {
			out = append(out, it)
		}
	}
	return out
}
