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

// PostgresNoteRepository implements the NoteRepository interface
type PostgresNoteRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(config *postgres.RepositoryConfig) grimoireRepo.NoteRepository {
	return &PostgresNoteRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const noteColumns = `id, game_id, node_id, file_type, img, data, created_at, updated_at`

// Upsert creates or replaces the note of a node. Timestamps are set by the
// database; created_at survives a replace.
func (r *PostgresNoteRepository) Upsert(ctx context.Context, note *models.Note) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (game_id, node_id, file_type, img, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (game_id, node_id) DO UPDATE SET
			file_type = EXCLUDED.file_type,
			img = EXCLUDED.img,
			data = EXCLUDED.data,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		note.GameID,
		note.NodeID,
		note.FileType,
		note.Img,
		note.Data,
	).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("game %s: %w", note.GameID, domain.ErrNotFound)
		}
		return fmt.Errorf("upsert note: %w", err)
	}

	return nil
}

// Get retrieves the note backing a node
func (r *PostgresNoteRepository) Get(ctx context.Context, gameID, nodeID string) (*models.Note, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE game_id = $1 AND node_id = $2
	`, noteColumns, r.tables.Notes)

	var note models.Note
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, gameID, nodeID).Scan(
		&note.ID,
		&note.GameID,
		&note.NodeID,
		&note.FileType,
		&note.Img,
		&note.Data,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("note %s: %w", nodeID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	return &note, nil
}

// List retrieves a game's notes, optionally restricted to some file types
func (r *PostgresNoteRepository) List(ctx context.Context, gameID string, filter models.NoteFilter) ([]models.Note, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE game_id = $1 AND (cardinality($2::text[]) = 0 OR file_type = ANY($2))
		ORDER BY id
	`, noteColumns, r.tables.Notes)

	fileTypes := filter.FileTypes
	if fileTypes == nil {
		fileTypes = []string{}
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, gameID, fileTypes)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(
			&note.ID,
			&note.GameID,
			&note.NodeID,
			&note.FileType,
			&note.Img,
			&note.Data,
			&note.CreatedAt,
			&note.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	return notes, nil
}

// UpdateImg sets the image reference of a note
func (r *PostgresNoteRepository) UpdateImg(ctx context.Context, gameID, nodeID, img string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET img = $1, updated_at = NOW()
		WHERE game_id = $2 AND node_id = $3
	`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, img, gameID, nodeID)
	if err != nil {
		return fmt.Errorf("update note img: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", nodeID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes the note of a node
func (r *PostgresNoteRepository) Delete(ctx context.Context, gameID, nodeID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE game_id = $1 AND node_id = $2
	`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, gameID, nodeID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
