package grimoire

import (
	"context"
	"errors"
	"strings"
	"testing"

	"grimoires/internal/domain"
	grimoireSvc "grimoires/internal/domain/services/grimoire"
)

func strPtr(s string) *string { return &s }

func TestCreateGameValidation(t *testing.T) {
	f := newFixture()
	svc := NewGameService(f.games, f.authorizer, testLogger())

	tests := []struct {
		name    string
		req     grimoireSvc.CreateGameRequest
		wantErr bool
	}{
		{"valid", grimoireSvc.CreateGameRequest{UserID: ownerID, Name: "  Les Terres Brisées "}, false},
		{"blank name", grimoireSvc.CreateGameRequest{UserID: ownerID, Name: "   "}, true},
		{"empty name", grimoireSvc.CreateGameRequest{UserID: ownerID}, true},
		{"missing user", grimoireSvc.CreateGameRequest{Name: "x"}, true},
		{"name too long", grimoireSvc.CreateGameRequest{UserID: ownerID, Name: strings.Repeat("a", 256)}, true},
		{"description too long", grimoireSvc.CreateGameRequest{UserID: ownerID, Name: "x", Description: strPtr(strings.Repeat("d", 4001))}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			game, err := svc.CreateGame(context.Background(), &req)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("CreateGame() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateGame() error = %v", err)
			}
			if game.Name != "Les Terres Brisées" {
				t.Errorf("Name = %q, want trimmed", game.Name)
			}
			if game.ID == "" {
				t.Error("ID not set")
			}
		})
	}
}

func TestUpdateGameDescriptionTriState(t *testing.T) {
	f := newFixture()
	svc := NewGameService(f.games, f.authorizer, testLogger())
	ctx := context.Background()

	game, err := svc.UpdateGame(ctx, f.gameID, ownerID, &grimoireSvc.UpdateGameRequest{
		Description: grimoireSvc.OptionalDescription{Present: true, Value: strPtr(" une campagne ")},
	})
	if err != nil {
		t.Fatalf("UpdateGame(set) error = %v", err)
	}
	if game.Description == nil || *game.Description != "une campagne" {
		t.Fatalf("Description = %v, want set", game.Description)
	}

	game, err = svc.UpdateGame(ctx, f.gameID, ownerID, &grimoireSvc.UpdateGameRequest{Name: strPtr("Renommée")})
	if err != nil {
		t.Fatalf("UpdateGame(name) error = %v", err)
	}
	if game.Name != "Renommée" || game.Description == nil {
		t.Fatalf("absent description must be kept, got %+v", game)
	}

	game, err = svc.UpdateGame(ctx, f.gameID, ownerID, &grimoireSvc.UpdateGameRequest{
		Description: grimoireSvc.OptionalDescription{Present: true},
	})
	if err != nil {
		t.Fatalf("UpdateGame(clear) error = %v", err)
	}
	if game.Description != nil {
		t.Errorf("Description = %q, want cleared", *game.Description)
	}

	if _, err := svc.UpdateGame(ctx, f.gameID, ownerID, &grimoireSvc.UpdateGameRequest{}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty update error = %v, want ErrValidation", err)
	}
	if _, err := svc.UpdateGame(ctx, f.gameID, ownerID, &grimoireSvc.UpdateGameRequest{Name: strPtr(" ")}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank name error = %v, want ErrValidation", err)
	}
}

func TestGameOwnership(t *testing.T) {
	f := newFixture()
	svc := NewGameService(f.games, f.authorizer, testLogger())
	ctx := context.Background()

	if _, err := svc.GetGame(ctx, f.gameID, guestID); err != nil {
		t.Fatalf("guest GetGame() error = %v, want shared access", err)
	}
	if _, err := svc.UpdateGame(ctx, f.gameID, guestID, &grimoireSvc.UpdateGameRequest{Name: strPtr("x")}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("guest UpdateGame() error = %v, want ErrForbidden", err)
	}
	if _, err := svc.DeleteGame(ctx, f.gameID, guestID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("guest DeleteGame() error = %v, want ErrForbidden", err)
	}

	games, err := svc.ListGames(ctx, guestID)
	if err != nil || len(games) != 0 {
		t.Errorf("guest ListGames() = %v, %v, want none", games, err)
	}

	deleted, err := svc.DeleteGame(ctx, f.gameID, ownerID)
	if err != nil {
		t.Fatalf("DeleteGame() error = %v", err)
	}
	if deleted.DeletedAt == nil {
		t.Error("DeletedAt not set")
	}
	if _, err := svc.GetGame(ctx, f.gameID, ownerID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetGame() after delete error = %v, want ErrNotFound", err)
	}
}
