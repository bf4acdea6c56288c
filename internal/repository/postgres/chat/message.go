package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"grimoires/internal/dice"
	"grimoires/internal/domain"
	models "grimoires/internal/domain/models/chat"
	chatRepo "grimoires/internal/domain/repositories/chat"
	"grimoires/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresMessageRepository implements the MessageRepository interface
type PostgresMessageRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewMessageRepository creates a new chat message repository
func NewMessageRepository(config *postgres.RepositoryConfig) chatRepo.MessageRepository {
	return &PostgresMessageRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create stores a chat message
func (r *PostgresMessageRepository) Create(ctx context.Context, msg *models.Message) error {
	if msg.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate message id: %w", err)
		}
		msg.ID = id.String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	// timestamptz stores microseconds
	msg.CreatedAt = msg.CreatedAt.Truncate(time.Microsecond)

	var roll []byte
	if msg.Roll != nil {
		var err error
		if roll, err = json.Marshal(msg.Roll); err != nil {
			return fmt.Errorf("encode roll: %w", err)
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, game_id, user_id, author, label, content, roll, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.ChatMessages)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		msg.ID,
		msg.GameID,
		msg.UserID,
		msg.Author,
		msg.Label,
		msg.Content,
		roll,
		msg.CreatedAt,
	)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("game %s: %w", msg.GameID, domain.ErrNotFound)
		}
		return fmt.Errorf("create chat message: %w", err)
	}

	return nil
}

// List returns a game's messages newest first
func (r *PostgresMessageRepository) List(ctx context.Context, gameID string, opts models.ListOptions) ([]models.Message, error) {
	query := fmt.Sprintf(`
		SELECT id, game_id, user_id, author, label, content, roll, created_at
		FROM %s
		WHERE game_id = $1
			AND ($2::timestamptz IS NULL OR created_at < $2 OR (created_at = $2 AND id < $3::uuid))
		ORDER BY created_at DESC, id DESC
		LIMIT $4
	`, r.tables.ChatMessages)

	var before, beforeID any
	if opts.Before != nil {
		before = opts.Before.CreatedAt
		if opts.Before.ID != "" {
			beforeID = opts.Before.ID
		}
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, gameID, before, beforeID, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var (
			msg  models.Message
			roll []byte
		)
		if err := rows.Scan(
			&msg.ID,
			&msg.GameID,
			&msg.UserID,
			&msg.Author,
			&msg.Label,
			&msg.Content,
			&roll,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		if len(roll) > 0 {
			msg.Roll = &dice.Result{}
			if err := json.Unmarshal(roll, msg.Roll); err != nil {
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
