package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables and indexes for the configured prefix.
// Every statement is idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS ` + tables.Games + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS ` + tables.Structures + ` (
			game_id UUID NOT NULL REFERENCES ` + tables.Games + `(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			structure JSONB NOT NULL DEFAULT '[]'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (game_id, type)
		)`,

		`CREATE TABLE IF NOT EXISTS ` + tables.Notes + ` (
			id BIGSERIAL PRIMARY KEY,
			game_id UUID NOT NULL REFERENCES ` + tables.Games + `(id) ON DELETE CASCADE,
			node_id TEXT NOT NULL,
			file_type TEXT NOT NULL DEFAULT '',
			img VARCHAR(40) NOT NULL DEFAULT '',
			data TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (game_id, node_id)
		)`,

		`CREATE TABLE IF NOT EXISTS ` + tables.ChatMessages + ` (
			id UUID PRIMARY KEY,
			game_id UUID NOT NULL REFERENCES ` + tables.Games + `(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			author TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			roll JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_` + tables.Prefix + `games_user ON ` + tables.Games + `(user_id, updated_at DESC) WHERE deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Prefix + `notes_game_type ON ` + tables.Notes + `(game_id, file_type)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Prefix + `chat_messages_game_cursor ON ` + tables.ChatMessages + `(game_id, created_at DESC, id DESC)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// DropAll drops every table of the configured prefix
func DropAll(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, table := range tables.All() {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}
