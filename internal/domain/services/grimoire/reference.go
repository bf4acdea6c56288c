package grimoire

import (
	"context"

	"grimoires/internal/domain/models/grimoire"
)

// ReferenceData bundles the three reference tables of a game
type ReferenceData struct {
	Profiles []grimoire.Profile
	Races    []grimoire.Race
	Items    []grimoire.Item
}

// ReferenceService reads profile, race and equipment tables from notes
type ReferenceService interface {
	ListProfiles(ctx context.Context, userID, gameID string) ([]grimoire.Profile, error)
	ListRaces(ctx context.Context, userID, gameID string) ([]grimoire.Race, error)

	// ListItems returns equipment records whose file type is an item type
	ListItems(ctx context.Context, userID, gameID string) ([]grimoire.Item, error)

	// GetCapacities groups a profile's capacities by path name
	GetCapacities(ctx context.Context, userID, gameID, profileName string) (map[string][]grimoire.Capacity, error)

	// Load reads every table at once
	Load(ctx context.Context, userID, gameID string) (*ReferenceData, error)
}
