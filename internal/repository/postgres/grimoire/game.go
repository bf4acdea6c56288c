package grimoire

import (
	"context"
	"fmt"

	"grimoires/internal/domain"
	models "grimoires/internal/domain/models/grimoire"
	grimoireRepo "grimoires/internal/domain/repositories/grimoire"
	"grimoires/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresGameRepository implements the GameRepository interface
type PostgresGameRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewGameRepository creates a new game repository
func NewGameRepository(config *postgres.RepositoryConfig) grimoireRepo.GameRepository {
	return &PostgresGameRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new game
func (r *PostgresGameRepository) Create(ctx context.Context, game *models.Game) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Games)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		game.UserID,
		game.Name,
		game.Description,
		game.CreatedAt,
		game.UpdatedAt,
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}

	return nil
}

// GetByID retrieves a live game by ID
func (r *PostgresGameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, description, created_at, updated_at
		FROM %s
		WHERE id = $1 AND deleted_at IS NULL
	`, r.tables.Games)

	var game models.Game
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&game.ID,
		&game.UserID,
		&game.Name,
		&game.Description,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("game %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get game: %w", err)
	}

	return &game, nil
}

// List retrieves all games owned by a user, ordered by updated_at DESC
func (r *PostgresGameRepository) List(ctx context.Context, userID string) ([]models.Game, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, description, created_at, updated_at
		FROM %s
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY updated_at DESC
	`, r.tables.Games)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	games := []models.Game{}
	for rows.Next() {
		var game models.Game
		if err := rows.Scan(
			&game.ID,
			&game.UserID,
			&game.Name,
			&game.Description,
			&game.CreatedAt,
			&game.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}

	return games, nil
}

// Update updates a game's name, description and updated_at timestamp
func (r *PostgresGameRepository) Update(ctx context.Context, game *models.Game) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5 AND deleted_at IS NULL
	`, r.tables.Games)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		game.Name,
		game.Description,
		game.UpdatedAt,
		game.ID,
		game.UserID,
	)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("game %s: %w", game.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete soft-deletes a game and returns the deleted game
func (r *PostgresGameRepository) Delete(ctx context.Context, id, userID string) (*models.Game, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		RETURNING id, user_id, name, description, created_at, updated_at, deleted_at
	`, r.tables.Games)

	var game models.Game
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, userID).Scan(
		&game.ID,
		&game.UserID,
		&game.Name,
		&game.Description,
		&game.CreatedAt,
		&game.UpdatedAt,
		&game.DeletedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("game %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("delete game: %w", err)
	}

	return &game, nil
}
