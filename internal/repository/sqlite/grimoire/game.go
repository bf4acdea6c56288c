// Package grimoire holds the SQLite implementations of the game, structure
// and note repositories.
package grimoire

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"grimoires/internal/domain"
	models "grimoires/internal/domain/models/grimoire"
	grimoireRepo "grimoires/internal/domain/repositories/grimoire"
	"grimoires/internal/repository/sqlite"

	"github.com/google/uuid"
)

// SQLiteGameRepository implements the GameRepository interface
type SQLiteGameRepository struct {
	store *sqlite.Store
}

// NewGameRepository creates a new game repository
func NewGameRepository(store *sqlite.Store) grimoireRepo.GameRepository {
	return &SQLiteGameRepository{store: store}
}

// Create creates a new game
func (r *SQLiteGameRepository) Create(ctx context.Context, game *models.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if game.ID == "" {
		game.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if game.CreatedAt.IsZero() {
		game.CreatedAt = now
	}
	if game.UpdatedAt.IsZero() {
		game.UpdatedAt = game.CreatedAt
	}

	_, err := r.store.GetExecutor(ctx).ExecContext(ctx,
		`INSERT INTO games (id, user_id, name, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		game.ID,
		game.UserID,
		game.Name,
		game.Description,
		sqlite.ToMillis(game.CreatedAt),
		sqlite.ToMillis(game.UpdatedAt),
	)
	if err != nil {
		if sqlite.IsUniqueViolation(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("game %s already exists", game.ID),
				ResourceType: "game",
				ResourceID:   game.ID,
			}
		}
		return fmt.Errorf("create game: %w", err)
	}

	game.CreatedAt = sqlite.FromMillis(sqlite.ToMillis(game.CreatedAt))
	game.UpdatedAt = sqlite.FromMillis(sqlite.ToMillis(game.UpdatedAt))
	return nil
}

// GetByID retrieves a live game by ID
func (r *SQLiteGameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	row := r.store.GetExecutor(ctx).QueryRowContext(ctx,
		`SELECT id, user_id, name, description, created_at, updated_at, deleted_at
		 FROM games
		 WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	game, err := scanGame(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("game %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get game: %w", err)
	}
	return game, nil
}

// List retrieves all games owned by a user, ordered by updated_at DESC
func (r *SQLiteGameRepository) List(ctx context.Context, userID string) ([]models.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := r.store.GetExecutor(ctx).QueryContext(ctx,
		`SELECT id, user_id, name, description, created_at, updated_at, deleted_at
		 FROM games
		 WHERE user_id = ? AND deleted_at IS NULL
		 ORDER BY updated_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	games := []models.Game{}
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, *game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return games, nil
}

// Update updates a game's name, description and updated_at timestamp
func (r *SQLiteGameRepository) Update(ctx context.Context, game *models.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	result, err := r.store.GetExecutor(ctx).ExecContext(ctx,
		`UPDATE games
		 SET name = ?, description = ?, updated_at = ?
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		game.Name,
		game.Description,
		sqlite.ToMillis(game.UpdatedAt),
		game.ID,
		game.UserID,
	)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("game %s: %w", game.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete soft-deletes a game and returns the deleted game
func (r *SQLiteGameRepository) Delete(ctx context.Context, id, userID string) (*models.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	row := r.store.GetExecutor(ctx).QueryRowContext(ctx,
		`UPDATE games
		 SET deleted_at = ?
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL
		 RETURNING id, user_id, name, description, created_at, updated_at, deleted_at`,
		sqlite.ToMillis(time.Now()),
		id,
		userID,
	)
	game, err := scanGame(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("game %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("delete game: %w", err)
	}
	return game, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*models.Game, error) {
	var (
		game                 models.Game
		description          sql.NullString
		createdAt, updatedAt int64
		deletedAt            sql.NullInt64
	)
	if err := row.Scan(
		&game.ID,
		&game.UserID,
		&game.Name,
		&description,
		&createdAt,
		&updatedAt,
		&deletedAt,
	); err != nil {
		return nil, err
	}

	if description.Valid {
		game.Description = &description.String
	}
	game.CreatedAt = sqlite.FromMillis(createdAt)
	game.UpdatedAt = sqlite.FromMillis(updatedAt)
	if deletedAt.Valid {
		t := sqlite.FromMillis(deletedAt.Int64)
		game.DeletedAt = &t
	}
	return &game, nil
}
