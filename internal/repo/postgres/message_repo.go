package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

type MessageRecord struct {
	ID        int64
	MatchID   int64
	SenderID  int64
	Content   string
	IsRead    bool
	CreatedAt time.Time
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, tx pgx.Tx, matchID, senderID int64, content string, now time.Time) (MessageRecord, error) {
	if tx == nil {
		return MessageRecord{}, fmt.Errorf("transaction is required")
	}
	if matchID <= 0 || senderID <= 0 || strings.TrimSpace(content) == "" {
		return MessageRecord{}, fmt.Errorf("invalid message payload")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec MessageRecord
	err := tx.QueryRow(ctx, `
INSERT INTO messages (match_id, sender_id, content, is_read, created_at)
VALUES ($1, $2, $3, FALSE, $4)
RETURNING id, match_id, sender_id, content, is_read, created_at
`, matchID, senderID, content, now.UTC()).Scan(
		&rec.ID,
		&rec.MatchID,
		&rec.SenderID,
		&rec.Content,
		&rec.IsRead,
		&rec.CreatedAt,
	)
	if err != nil {
		return MessageRecord{}, fmt.Errorf("create message: %w", err)
	}

	return rec, nil
}

// ListByMatch returns the full conversation, oldest first. The bigserial
// id breaks ties when the clock is too coarse to order two inserts.
func (r *MessageRepo) ListByMatch(ctx context.Context, matchID int64) ([]MessageRecord, error) {
	if r.pool == nil {
		return []MessageRecord{}, nil
	}
	if matchID <= 0 {
		return nil, fmt.Errorf("invalid match id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, match_id, sender_id, content, is_read, created_at
FROM messages
WHERE match_id = $1
ORDER BY created_at ASC, id ASC
`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	items := make([]MessageRecord, 0, 64)
	for rows.Next() {
		var rec MessageRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.MatchID,
			&rec.SenderID,
			&rec.Content,
			&rec.IsRead,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate messages: %w", rows.Err())
	}

	return items, nil
}

// MarkReadForRecipient flips every unread message in the match that was
// not sent by readerID. One statement, so the read state moves as a single
// logical update; repeating it is a no-op.
func (r *MessageRepo) MarkReadForRecipient(ctx context.Context, matchID, readerID int64) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if matchID <= 0 || readerID <= 0 {
		return 0, fmt.Errorf("invalid read payload")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE messages
SET is_read = TRUE
WHERE match_id = $1 AND sender_id <> $2 AND NOT is_read
`, matchID, readerID)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}

	return result.RowsAffected(), nil
}
