// Package chat holds the SQLite implementation of the chat message repository.
package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"grimoires/internal/dice"
	"grimoires/internal/domain"
	models "grimoires/internal/domain/models/chat"
	chatRepo "grimoires/internal/domain/repositories/chat"
	"grimoires/internal/repository/sqlite"

	"github.com/google/uuid"
)

// SQLiteMessageRepository implements the MessageRepository interface
type SQLiteMessageRepository struct {
	store *sqlite.Store
}

// NewMessageRepository creates a new chat message repository
func NewMessageRepository(store *sqlite.Store) chatRepo.MessageRepository {
	return &SQLiteMessageRepository{store: store}
}

// Create stores a chat message
func (r *SQLiteMessageRepository) Create(ctx context.Context, msg *models.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate message id: %w", err)
		}
		msg.ID = id.String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	msg.CreatedAt = sqlite.FromMillis(sqlite.ToMillis(msg.CreatedAt))

	var roll sql.NullString
	if msg.Roll != nil {
		raw, err := json.Marshal(msg.Roll)
		if err != nil {
			return fmt.Errorf("encode roll: %w", err)
		}
		roll = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := r.store.GetExecutor(ctx).ExecContext(ctx,
		`INSERT INTO chat_messages (id, game_id, user_id, author, label, content, roll, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID,
		msg.GameID,
		msg.UserID,
		msg.Author,
		msg.Label,
		msg.Content,
		roll,
		sqlite.ToMillis(msg.CreatedAt),
	)
	if err != nil {
		if sqlite.IsForeignKeyViolation(err) {
			return fmt.Errorf("game %s: %w", msg.GameID, domain.ErrNotFound)
		}
		return fmt.Errorf("create chat message: %w", err)
	}
	return nil
}

// List returns a game's messages newest first
func (r *SQLiteMessageRepository) List(ctx context.Context, gameID string, opts models.ListOptions) ([]models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		before   sql.NullInt64
		beforeID sql.NullString
	)
	if opts.Before != nil {
		before = sql.NullInt64{Int64: sqlite.ToMillis(opts.Before.CreatedAt), Valid: true}
		beforeID = sql.NullString{String: opts.Before.ID, Valid: opts.Before.ID != ""}
	}

	rows, err := r.store.GetExecutor(ctx).QueryContext(ctx,
		`SELECT id, game_id, user_id, author, label, content, roll, created_at
		 FROM chat_messages
		 WHERE game_id = ?
		   AND (? IS NULL OR created_at < ? OR (created_at = ? AND id < ?))
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		gameID, before, before, before, beforeID, opts.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var (
			msg       models.Message
			roll      sql.NullString
			createdAt int64
		)
		if err := rows.Scan(
			&msg.ID,
			&msg.GameID,
			&msg.UserID,
			&msg.Author,
			&msg.Label,
			&msg.Content,
			&roll,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		msg.CreatedAt = sqlite.FromMillis(createdAt)
		if roll.Valid && roll.String != "" {
			msg.Roll = &dice.Result{}
			if err := json.Unmarshal([]byte(roll.String), msg.Roll); err != nil {
				return nil, fmt.Errorf("decode roll of message %s: %w", msg.ID, err)
			}
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat messages: %w", err)
	}
	return messages, nil
}
