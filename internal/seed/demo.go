// Package seed fills a database with a playable demo game.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"grimoires/internal/domain/models/grimoire"
	grimoireSvc "grimoires/internal/domain/services/grimoire"
	"grimoires/internal/service"
)

// Structure types created by the demo
const (
	ReferenceStructure = "reference"
	CharacterStructure = "personnages"
)

type demoNote struct {
	name     string
	fileType string
	data     string
}

type demoFolder struct {
	name  string
	notes []demoNote
}

var referenceFolders = []demoFolder{
	{name: "Profils", notes: []demoNote{
		{"Guerrier", "profil", `{"name":"Guerrier","traits":{"adresse":0,"esprit":0,"puissance":2},"paths":[{"path":"Bouclier","capacities":[{"name":"Parade","description":"+2 en DEF contre une attaque"},{"name":"Mur d'acier"}]},{"path":"Rage","capacities":[{"name":"Cri de guerre"}]}]}`},
		{"Rôdeur", "profil", `{"name":"Rôdeur","traits":{"adresse":2,"esprit":0,"puissance":0},"paths":[{"path":"Archerie","capacities":[{"name":"Tir précis"}]}]}`},
		{"Mage", "profil", `{"name":"Mage","traits":{"adresse":0,"esprit":2,"puissance":0},"paths":[{"path":"Feu","capacities":[{"name":"Boule de feu","description":"2d6 dégâts"}]}]}`},
	}},
	{name: "Peuples", notes: []demoNote{
		{"Nain", "peuple", `{"name":"Nain","traits":{"adresse":-1,"esprit":1,"puissance":1}}`},
		{"Elfe", "peuple", `{"name":"Elfe","traits":{"adresse":1,"esprit":1,"puissance":-1}}`},
		{"Humain", "peuple", `{"name":"Humain","traits":{"adresse":0,"esprit":0,"puissance":0}}`},
	}},
	{name: "Équipement", notes: []demoNote{
		{"Hache", "Arme", `{"name":"Hache","weaponType":"cac","damage":"1d8"}`},
		{"Arc court", "Arme", `{"name":"Arc court","weaponType":"dist","damage":"1d6"}`},
		{"Bâton", "Arme", `{"name":"Bâton","weaponType":"magic","damage":"1d4"}`},
		{"Cotte de mailles", "Armure", `{"name":"Cotte de mailles","defense":"4"}`},
		{"Cape", "Accessoire", `{"name":"Cape","defense":1}`},
	}},
}

// Seeder creates demo content through the services, so every record goes
// through the same validation as API writes.
type Seeder struct {
	services *service.Services
	logger   *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(services *service.Services, logger *slog.Logger) *Seeder {
	return &Seeder{
		services: services,
		logger:   logger,
	}
}

// SeedDemoGame creates a game owned by userID with reference tables and
// one character.
func (s *Seeder) SeedDemoGame(ctx context.Context, userID string) (*grimoire.Game, error) {
	description := "Partie de démonstration"
	game, err := s.services.Games.CreateGame(ctx, &grimoireSvc.CreateGameRequest{
		UserID:      userID,
		Name:        "Les Terres Grises",
		Description: &description,
	})
	if err != nil {
		return nil, fmt.Errorf("create demo game: %w", err)
	}

	for _, folder := range referenceFolders {
		if err := s.seedFolder(ctx, userID, game.ID, folder); err != nil {
			return nil, err
		}
	}

	if err := s.seedCharacter(ctx, userID, game.ID); err != nil {
		return nil, err
	}

	s.logger.Info("demo game seeded",
		"game_id", game.ID,
		"user_id", userID,
	)
	return game, nil
}

func (s *Seeder) seedFolder(ctx context.Context, userID, gameID string, folder demoFolder) error {
	_, parent, err := s.services.Structures.CreateNode(ctx, userID, gameID, ReferenceStructure, &grimoireSvc.CreateNodeRequest{
		Type: grimoire.NodeTypeFolder,
		Name: folder.name,
	})
	if err != nil {
		return fmt.Errorf("create folder %s: %w", folder.name, err)
	}

	for _, n := range folder.notes {
		_, node, err := s.services.Structures.CreateNode(ctx, userID, gameID, ReferenceStructure, &grimoireSvc.CreateNodeRequest{
			ParentID: &parent.ID,
			Type:     grimoire.NodeTypeFile,
			Name:     n.name,
			FileType: n.fileType,
		})
		if err != nil {
			return fmt.Errorf("create file %s: %w", n.name, err)
		}
		if _, err := s.services.Notes.PutNote(ctx, userID, gameID, string(node.ID), &grimoireSvc.PutNoteRequest{
			FileType: n.fileType,
			Data:     n.data,
		}); err != nil {
			return fmt.Errorf("write note %s: %w", n.name, err)
		}
	}
	return nil
}

func (s *Seeder) seedCharacter(ctx context.Context, userID, gameID string) error {
	_, node, err := s.services.Structures.CreateNode(ctx, userID, gameID, CharacterStructure, &grimoireSvc.CreateNodeRequest{
		Type:     grimoire.NodeTypeFile,
		Name:     "Brunhild",
		FileType: "caracteres",
	})
	if err != nil {
		return fmt.Errorf("create character file: %w", err)
	}

	_, err = s.services.Characters.SaveSheet(ctx, userID, gameID, string(node.ID), &grimoire.CharacterInputs{
		Name:       "Brunhild",
		ClassType:  "Guerrier",
		Species:    "Nain",
		Background: "Forgeronne exilée",
		Level:      2,
		Address:    1,
		Spirit:     0,
		Power:      2,
		Equipment:  []string{"Hache", "Cotte de mailles"},
	})
	if err != nil {
		return fmt.Errorf("save character sheet: %w", err)
	}
	return nil
}
