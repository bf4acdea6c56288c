package grimoire

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"grimoires/internal/domain"
	models "grimoires/internal/domain/models/grimoire"
	grimoireRepo "grimoires/internal/domain/repositories/grimoire"
	"grimoires/internal/repository/sqlite"
)

// SQLiteNoteRepository implements the NoteRepository interface
type SQLiteNoteRepository struct {
	store *sqlite.Store
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(store *sqlite.Store) grimoireRepo.NoteRepository {
	return &SQLiteNoteRepository{store: store}
}

const noteColumns = `id, game_id, node_id, file_type, img, data, created_at, updated_at`

// Upsert creates or replaces the note of a node
func (r *SQLiteNoteRepository) Upsert(ctx context.Context, note *models.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now

	var createdAt, updatedAt int64
	err := r.store.GetExecutor(ctx).QueryRowContext(ctx,
		`INSERT INTO notes (game_id, node_id, file_type, img, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (game_id, node_id) DO UPDATE SET
		   file_type = excluded.file_type,
		   img = excluded.img,
		   data = excluded.data,
		   updated_at = excluded.updated_at
		 RETURNING id, created_at, updated_at`,
		note.GameID,
		note.NodeID,
		note.FileType,
		note.Img,
		note.Data,
		sqlite.ToMillis(note.CreatedAt),
		sqlite.ToMillis(note.UpdatedAt),
	).Scan(&note.ID, &createdAt, &updatedAt)
	if err != nil {
		if sqlite.IsForeignKeyViolation(err) {
			return fmt.Errorf("game %s: %w", note.GameID, domain.ErrNotFound)
		}
		return fmt.Errorf("upsert note: %w", err)
	}

	note.CreatedAt = sqlite.FromMillis(createdAt)
	note.UpdatedAt = sqlite.FromMillis(updatedAt)
	return nil
}

// Get retrieves the note backing a node
func (r *SQLiteNoteRepository) Get(ctx context.Context, gameID, nodeID string) (*models.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	row := r.store.GetExecutor(ctx).QueryRowContext(ctx,
		`SELECT `+noteColumns+`
		 FROM notes
		 WHERE game_id = ? AND node_id = ?`,
		gameID, nodeID,
	)
	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("note %s: %w", nodeID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// List retrieves a game's notes, optionally restricted to some file types
func (r *SQLiteNoteRepository) List(ctx context.Context, gameID string, filter models.NoteFilter) ([]models.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := `SELECT ` + noteColumns + ` FROM notes WHERE game_id = ?`
	args := []any{gameID}
	if len(filter.FileTypes) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(filter.FileTypes)), ",")
		query += ` AND file_type IN (` + placeholders + `)`
		for _, ft := range filter.FileTypes {
			args = append(args, ft)
		}
	}
	query += ` ORDER BY id`

	rows, err := r.store.GetExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

// UpdateImg sets the image reference of a note
func (r *SQLiteNoteRepository) UpdateImg(ctx context.Context, gameID, nodeID, img string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	result, err := r.store.GetExecutor(ctx).ExecContext(ctx,
		`UPDATE notes SET img = ?, updated_at = ? WHERE game_id = ? AND node_id = ?`,
		img, sqlite.ToMillis(time.Now()), gameID, nodeID,
	)
	if err != nil {
		return fmt.Errorf("update note img: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update note img: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("note %s: %w", nodeID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes the note of a node
func (r *SQLiteNoteRepository) Delete(ctx context.Context, gameID, nodeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := r.store.GetExecutor(ctx).ExecContext(ctx,
		`DELETE FROM notes WHERE game_id = ? AND node_id = ?`,
		gameID, nodeID,
	)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func scanNote(row rowScanner) (*models.Note, error) {
	var (
		note                 models.Note
		createdAt, updatedAt int64
	)
	if err := row.Scan(
		&note.ID,
		&note.GameID,
		&note.NodeID,
		&note.FileType,
		&note.Img,
		&note.Data,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	note.CreatedAt = sqlite.FromMillis(createdAt)
	note.UpdatedAt = sqlite.FromMillis(updatedAt)
	return &note, nil
}
