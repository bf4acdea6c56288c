package grimoire

import (
	"context"
	"encoding/json"
	"fmt"

	"grimoires/internal/domain"
	models "grimoires/internal/domain/models/grimoire"
	grimoireRepo "grimoires/internal/domain/repositories/grimoire"
	"grimoires/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStructureRepository stores structure trees in a JSONB column
type PostgresStructureRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewStructureRepository creates a new structure repository
func NewStructureRepository(config *postgres.RepositoryConfig) grimoireRepo.StructureRepository {
	return &PostgresStructureRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Get retrieves the structure of a game for one type
func (r *PostgresStructureRepository) Get(ctx context.Context, gameID, structureType string) (*models.Structure, error) {
	return r.get(ctx, gameID, structureType, "")
}

// GetForUpdate retrieves the structure and locks its row
func (r *PostgresStructureRepository) GetForUpdate(ctx context.Context, gameID, structureType string) (*models.Structure, error) {
	return r.get(ctx, gameID, structureType, "FOR UPDATE")
}

func (r *PostgresStructureRepository) get(ctx context.Context, gameID, structureType, lock string) (*models.Structure, error) {
	query := fmt.Sprintf(`
		SELECT game_id, type, structure, updated_at
		FROM %s
		WHERE game_id = $1 AND type = $2
		%s
	`, r.tables.Structures, lock)

	var (
		s   models.Structure
		raw []byte
	)
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, gameID, structureType).Scan(
		&s.GameID,
		&s.Type,
		&raw,
		&s.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("structure %s/%s: %w", gameID, structureType, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get structure: %w", err)
	}

	if err := json.Unmarshal(raw, &s.Nodes); err != nil {
		return nil, fmt.Errorf("decode structure %s/%s: %w", gameID, structureType, err)
	}
	if s.Nodes == nil {
		s.Nodes = []*models.Node{}
	}

	return &s, nil
}

// Upsert replaces the structure document
func (r *PostgresStructureRepository) Upsert(ctx context.Context, s *models.Structure) error {
	nodes := s.Nodes
	if nodes == nil {
		nodes = []*models.Node{}
	}
	raw, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("encode structure: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (game_id, type, structure, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (game_id, type) DO UPDATE SET
			structure = EXCLUDED.structure,
			updated_at = NOW()
		RETURNING updated_at
	`, r.tables.Structures)

	executor := postgres.GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		s.GameID,
		s.Type,
		raw,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("game %s: %w", s.GameID, domain.ErrNotFound)
		}
		return fmt.Errorf("upsert structure: %w", err)
	}

	return nil
}
