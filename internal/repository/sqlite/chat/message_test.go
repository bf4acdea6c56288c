package chat

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"grimoires/internal/dice"
	models "grimoires/internal/domain/models/chat"
	grimoireModels "grimoires/internal/domain/models/grimoire"
	"grimoires/internal/repository/sqlite"
	sqliteGrimoire "grimoires/internal/repository/sqlite/grimoire"
)

func TestMessageRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "chat.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	game := &grimoireModels.Game{UserID: "user-1", Name: "G"}
	if err := sqliteGrimoire.NewGameRepository(store).Create(ctx, game); err != nil {
		t.Fatalf("create game: %v", err)
	}

	repo := NewMessageRepository(store)
	base := time.Date(2026, time.March, 1, 20, 0, 0, 0, time.UTC)

	roll, err := dice.RollCommand("/r 1d20 + 2", 1)
	if err != nil {
		t.Fatalf("roll: %v", err)
	}

	for i, content := range []string{"hello", "/r 1d20 + 2", "bye"} {
		msg := &models.Message{
			GameID:    game.ID,
			UserID:    "user-1",
			Author:    "Aria",
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if content == "/r 1d20 + 2" {
			msg.Label = "adresse"
			msg.Roll = &roll
		}
		if err := repo.Create(ctx, msg); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if msg.ID == "" {
			t.Fatal("Create() did not assign an ID")
		}
	}

	got, err := repo.List(ctx, game.ID, models.ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 3 || got[0].Content != "bye" || got[2].Content != "hello" {
		t.Fatalf("List() order = %+v, want newest first", got)
	}
	if got[1].Roll == nil || got[1].Roll.Total != roll.Total || got[1].Label != "adresse" {
		t.Errorf("roll not round-tripped: %+v", got[1])
	}
	if got[0].Roll != nil {
		t.Errorf("plain message has a roll: %+v", got[0].Roll)
	}

	before := models.Cursor{CreatedAt: base.Add(2 * time.Second)}
	page, err := repo.List(ctx, game.ID, models.ListOptions{Limit: 1, Before: &before})
	if err != nil {
		t.Fatalf("List(before) error = %v", err)
	}
	if len(page) != 1 || page[0].Content != "/r 1d20 + 2" {
		t.Errorf("List(before) = %+v", page)
	}

	if err := repo.Create(ctx, &models.Message{GameID: "missing", UserID: "u", Author: "a", Content: "x"}); err == nil {
		t.Errorf("Create() for unknown game should fail")
	}
}

func TestListPagesThroughSameInstant(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "chat.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	game := &grimoireModels.Game{UserID: "user-1", Name: "G"}
	if err := sqliteGrimoire.NewGameRepository(store).Create(ctx, game); err != nil {
		t.Fatalf("create game: %v", err)
	}

	repo := NewMessageRepository(store)
	at := time.Date(2026, time.March, 1, 20, 0, 0, 0, time.UTC)
	for _, content := range []string{"/r 1d20 + 3", "/r 1d8 + 3"} {
		msg := &models.Message{GameID: game.ID, UserID: "user-1", Author: "Brunhild", Content: content, CreatedAt: at}
		if err := repo.Create(ctx, msg); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	first, err := repo.List(ctx, game.ID, models.ListOptions{Limit: 1})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(first) != 1 || first[0].Content != "/r 1d8 + 3" {
		t.Fatalf("first page = %+v, want the damage roll", first)
	}

	cursor := models.Cursor{CreatedAt: first[0].CreatedAt, ID: first[0].ID}
	second, err := repo.List(ctx, game.ID, models.ListOptions{Limit: 1, Before: &cursor})
	if err != nil {
		t.Fatalf("List(cursor) error = %v", err)
	}
	if len(second) != 1 || second[0].Content != "/r 1d20 + 3" {
		t.Fatalf("second page = %+v, want the attack roll", second)
	}

	cursor = models.Cursor{CreatedAt: second[0].CreatedAt, ID: second[0].ID}
	rest, err := repo.List(ctx, game.ID, models.ListOptions{Limit: 1, Before: &cursor})
	if err != nil {
		t.Fatalf("List(last cursor) error = %v", err)
	}
	if len(rest) != 0 {
		t.Errorf("third page = %+v, want empty", rest)
	}
}
