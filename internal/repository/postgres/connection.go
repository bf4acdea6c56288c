package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Prefix       string
	Games        string
	Structures   string
	Notes        string
	ChatMessages string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Prefix:       prefix,
		Games:        fmt.Sprintf("%sgames", prefix),
		Structures:   fmt.Sprintf("%sstructures", prefix),
		Notes:        fmt.Sprintf("%snotes", prefix),
		ChatMessages: fmt.Sprintf("%schat_messages", prefix),
	}
}

// All lists every table, dependents first
func (t *TableNames) All() []string {
	return []string{t.ChatMessages, t.Notes, t.Structures, t.Games}
}

// CreateConnectionPool creates a pgx pool. Supabase's transaction pooler
// (port 6543) does not support prepared statements, so that port switches to
// QueryExecModeCacheDescribe unless default_query_exec_mode is set in the URL.
// Table prefixes are interpolated before the SQL reaches the server, so each
// environment caches its own statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	// Configure pool size
	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
