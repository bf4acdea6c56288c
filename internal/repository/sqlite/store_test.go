package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"grimoires/internal/repository/sqlite/migrations"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestOpenAppliesMigrations(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	for _, table := range []string{"games", "notes", "structures", "chat_messages"} {
		var name string
		err := store.DB().QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	// Re-applying is a no-op
	if err := ApplyMigrations(ctx, store.DB(), migrations.FS); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}

	var count int
	if err := store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 5 {
		t.Errorf("schema_migrations rows = %d, want 5", count)
	}
}

func TestRollbackMigrations(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	if err := RollbackMigrations(ctx, store.DB(), migrations.FS); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	var count int
	err := store.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('games', 'notes', 'structures', 'chat_messages')`,
	).Scan(&count)
	if err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if count != 0 {
		t.Errorf("tables left after rollback = %d, want 0", count)
	}

	// And back up again
	if err := ApplyMigrations(ctx, store.DB(), migrations.FS); err != nil {
		t.Fatalf("re-apply after rollback: %v", err)
	}
}

func TestExtractMigrationSections(t *testing.T) {
	t.Parallel()

	content := "-- +migrate Up\nCREATE TABLE a (id INTEGER);\n-- +migrate Down\nDROP TABLE a;\n"
	if up := strings.TrimSpace(ExtractUpMigration(content)); up != "CREATE TABLE a (id INTEGER);" {
		t.Errorf("ExtractUpMigration() = %q", up)
	}
	if down := strings.TrimSpace(ExtractDownMigration(content)); down != "DROP TABLE a;" {
		t.Errorf("ExtractDownMigration() = %q", down)
	}
	if up := ExtractUpMigration("SELECT 1;"); up != "SELECT 1;" {
		t.Errorf("ExtractUpMigration(no markers) = %q", up)
	}
	if down := ExtractDownMigration("SELECT 1;"); down != "" {
		t.Errorf("ExtractDownMigration(no markers) = %q", down)
	}
}

func TestExecTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	tm := NewTransactionManager(store)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tm.ExecTx(ctx, func(txCtx context.Context) error {
		_, err := store.GetExecutor(txCtx).ExecContext(txCtx,
			`INSERT INTO games (id, user_id, name, created_at, updated_at) VALUES ('g1', 'u1', 'n', 0, 0)`)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		// Nested ExecTx joins the outer transaction
		return tm.ExecTx(txCtx, func(context.Context) error { return boom })
	})
	if !errors.Is(err, boom) {
		t.Fatalf("ExecTx() error = %v, want boom", err)
	}

	var count int
	if err := store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("games after rollback = %d, want 0", count)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.DB().ExecContext(context.Background(),
		`INSERT INTO notes (game_id, node_id, created_at, updated_at) VALUES ('missing', 'n1', 0, 0)`)
	if err == nil {
		t.Fatal("expected foreign key violation")
	}
	if !IsForeignKeyViolation(err) {
		t.Errorf("IsForeignKeyViolation(%v) = false", err)
	}
}
