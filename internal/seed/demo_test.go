package seed

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"grimoires/internal/config"
	"grimoires/internal/repository"
	"grimoires/internal/service"
)

func TestSeedDemoGame(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		StorageDriver:     config.DriverSQLite,
		SQLitePath:        filepath.Join(t.TempDir(), "grimoires.db"),
		ImageDir:          t.TempDir(),
		ImageBaseURL:      "/images",
		ChatRatePerMinute: 60,
		ChatBurst:         10,
	}

	repos, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("open repositories: %v", err)
	}
	defer repos.Close()

	registry, err := service.SetupRules(cfg, logger)
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	images, err := service.SetupImageStore(cfg, registry)
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	services := service.SetupServices(repos, registry, images, cfg, logger)

	game, err := NewSeeder(services, logger).SeedDemoGame(ctx, "gm")
	if err != nil {
		t.Fatalf("SeedDemoGame() error = %v", err)
	}

	profiles, err := services.References.ListProfiles(ctx, "gm", game.ID)
	if err != nil {
		t.Fatalf("ListProfiles() error = %v", err)
	}
	if len(profiles) != 3 {
		t.Errorf("profiles = %d, want 3", len(profiles))
	}
	items, err := services.References.ListItems(ctx, "gm", game.ID)
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 5 {
		t.Errorf("items = %d, want 5", len(items))
	}

	tree, err := services.Structures.GetStructure(ctx, "gm", game.ID, CharacterStructure)
	if err != nil {
		t.Fatalf("GetStructure() error = %v", err)
	}
	if len(tree.Nodes) != 1 {
		t.Fatalf("character tree = %+v", tree.Nodes)
	}

	sheet, err := services.Characters.GetSheet(ctx, "gm", game.ID, string(tree.Nodes[0].ID))
	if err != nil {
		t.Fatalf("GetSheet() error = %v", err)
	}
	// 2 base + 2 profile + 1 race
	if sheet.Derived.TotalPower != 5 {
		t.Errorf("TotalPower = %d, want 5", sheet.Derived.TotalPower)
	}
	if sheet.Derived.Weapon == nil || sheet.Derived.Weapon.Name != "Hache" {
		t.Errorf("Weapon = %+v", sheet.Derived.Weapon)
	}
}
