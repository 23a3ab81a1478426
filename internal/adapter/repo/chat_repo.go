package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"finbot/internal/domain"
)

// ChatRepositoryPG implements domain.ChatRepository backed by PostgreSQL.
type ChatRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewChatRepository creates a new ChatRepositoryPG.
func NewChatRepository(pool *pgxpool.Pool) *ChatRepositoryPG {
	return &ChatRepositoryPG{pool: pool}
}

const chatColumns = `id, owner_id, message, is_support, timestamp`

// Insert appends a chat message and returns the stored record.
func (r *ChatRepositoryPG) Insert(ctx context.Context, chat *domain.Chat) (*domain.Chat, error) {
	if chat.ID == "" {
		chat.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO chats (id, owner_id, message, is_support, timestamp)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+chatColumns+`;
`, chat.ID, chat.OwnerID, chat.Message, chat.IsSupport, chat.Timestamp)
	return scanChat(row)
}

// ListByOwner returns an owner's conversation in chronological order.
func (r *ChatRepositoryPG) ListByOwner(ctx context.Context, ownerID string) ([]domain.Chat, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+chatColumns+` FROM chats WHERE owner_id = $1 ORDER BY timestamp, id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var chats []domain.Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, *c)
	}
	return chats, rows.Err()
}

func scanChat(row pgx.Row) (*domain.Chat, error) {
	var c domain.Chat
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Message, &c.IsSupport, &c.Timestamp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

var _ domain.ChatRepository = (*ChatRepositoryPG)(nil)
