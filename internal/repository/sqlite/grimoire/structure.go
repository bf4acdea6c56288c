package grimoire

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"grimoires/internal/domain"
	models "grimoires/internal/domain/models/grimoire"
	grimoireRepo "grimoires/internal/domain/repositories/grimoire"
	"grimoires/internal/repository/sqlite"
)

// SQLiteStructureRepository stores structure trees as JSON text
type SQLiteStructureRepository struct {
	store *sqlite.Store
}

// NewStructureRepository creates a new structure repository
func NewStructureRepository(store *sqlite.Store) grimoireRepo.StructureRepository {
	return &SQLiteStructureRepository{store: store}
}

// Get retrieves the structure of a game for one type
func (r *SQLiteStructureRepository) Get(ctx context.Context, gameID, structureType string) (*models.Structure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		s         models.Structure
		raw       string
		updatedAt int64
	)
	err := r.store.GetExecutor(ctx).QueryRowContext(ctx,
		`SELECT game_id, type, structure, updated_at
		 FROM structures
		 WHERE game_id = ? AND type = ?`,
		gameID, structureType,
	).Scan(&s.GameID, &s.Type, &raw, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("structure %s/%s: %w", gameID, structureType, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get structure: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &s.Nodes); err != nil {
		return nil, fmt.Errorf("decode structure %s/%s: %w", gameID, structureType, err)
	}
	if s.Nodes == nil {
		s.Nodes = []*models.Node{}
	}
	s.UpdatedAt = sqlite.FromMillis(updatedAt)
	return &s, nil
}

// GetForUpdate is Get; inside ExecTx the immediate transaction already
// holds the database write lock.
func (r *SQLiteStructureRepository) GetForUpdate(ctx context.Context, gameID, structureType string) (*models.Structure, error) {
	return r.Get(ctx, gameID, structureType)
}

// Upsert replaces the structure document
func (r *SQLiteStructureRepository) Upsert(ctx context.Context, s *models.Structure) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	nodes := s.Nodes
	if nodes == nil {
		nodes = []*models.Node{}
	}
	raw, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("encode structure: %w", err)
	}
	s.UpdatedAt = time.Now()

	_, err = r.store.GetExecutor(ctx).ExecContext(ctx,
		`INSERT INTO structures (game_id, type, structure, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (game_id, type) DO UPDATE SET
		   structure = excluded.structure,
		   updated_at = excluded.updated_at`,
		s.GameID,
		s.Type,
		string(raw),
		sqlite.ToMillis(s.UpdatedAt),
	)
	if err != nil {
		if sqlite.IsForeignKeyViolation(err) {
			return fmt.Errorf("game %s: %w", s.GameID, domain.ErrNotFound)
		}
		return fmt.Errorf("upsert structure: %w", err)
	}

	s.UpdatedAt = sqlite.FromMillis(sqlite.ToMillis(s.UpdatedAt))
	return nil
}
