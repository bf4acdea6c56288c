// Package repository opens the storage backend selected by configuration.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"grimoires/internal/config"
	"grimoires/internal/domain/repositories"
	chatRepo "grimoires/internal/domain/repositories/chat"
	grimoireRepo "grimoires/internal/domain/repositories/grimoire"
	"grimoires/internal/repository/postgres"
	postgresChat "grimoires/internal/repository/postgres/chat"
	postgresGrimoire "grimoires/internal/repository/postgres/grimoire"
	"grimoires/internal/repository/sqlite"
	sqliteChat "grimoires/internal/repository/sqlite/chat"
	sqliteGrimoire "grimoires/internal/repository/sqlite/grimoire"
	"grimoires/internal/repository/sqlite/migrations"
)

// Set holds every repository of one backend
type Set struct {
	Games      grimoireRepo.GameRepository
	Structures grimoireRepo.StructureRepository
	Notes      grimoireRepo.NoteRepository
	Messages   chatRepo.MessageRepository
	Tx         repositories.TransactionManager

	close func() error
}

// Close releases the database handle
func (s *Set) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the configured backend and brings its schema up to date
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Set, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		return openSQLite(ctx, cfg, logger)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func openSQLite(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Set, error) {
	store, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("database connected",
		"driver", config.DriverSQLite,
		"path", cfg.SQLitePath,
	)

	return &Set{
		Games:      sqliteGrimoire.NewGameRepository(store),
		Structures: sqliteGrimoire.NewStructureRepository(store),
		Notes:      sqliteGrimoire.NewNoteRepository(store),
		Messages:   sqliteChat.NewMessageRepository(store),
		Tx:         sqlite.NewTransactionManager(store),
		close:      store.Close,
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Set, error) {
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("database connected",
		"driver", config.DriverPostgres,
		"table_prefix", cfg.TablePrefix,
		"max_conns", pool.Config().MaxConns,
	)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	return &Set{
		Games:      postgresGrimoire.NewGameRepository(repoConfig),
		Structures: postgresGrimoire.NewStructureRepository(repoConfig),
		Notes:      postgresGrimoire.NewNoteRepository(repoConfig),
		Messages:   postgresChat.NewMessageRepository(repoConfig),
		Tx:         postgres.NewTransactionManager(repoConfig),
		close: func() error {
			pool.Close()
			return nil
		},
	}, nil
}

// DropAll removes every table of the configured backend
func DropAll(ctx context.Context, cfg *config.Config) error {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath, nil)
		if err != nil {
			return err
		}
		defer store.Close()
		return sqlite.RollbackMigrations(ctx, store.DB(), migrations.FS)
	case config.DriverPostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		return postgres.DropAll(ctx, pool, postgres.NewTableNames(cfg.TablePrefix))
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
