package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mr0kk/hackYeah2025-guidy/internal/domain/model"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepo struct {
	pool *pgxpool.Pool
}

type MatchRecord struct {
	ID        int64
	UserAID   int64
	UserBID   int64
	IsActive  bool
	CreatedAt time.Time
}

type MatchSummaryRecord struct {
	MatchID     int64
	OtherUserID int64
	Name        string
	PhotoURL    string
	Location    string
	CreatedAt   time.Time
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// CreateIfAbsent inserts the active match for the canonical pair, or
// returns the existing one when the pair is already matched. The partial
// unique index on active pairs resolves the race where both users complete
// the mutual like at once: the loser's insert hits the index, and the
// follow-up select observes the winner's row.
func (r *MatchRepo) CreateIfAbsent(ctx context.Context, tx pgx.Tx, userID, targetID int64, now time.Time) (MatchRecord, bool, error) {
	if tx == nil {
		return MatchRecord{}, false, fmt.Errorf("transaction is required")
	}
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return MatchRecord{}, false, fmt.Errorf("invalid match payload")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	userA, userB := model.CanonicalPair(userID, targetID)

	var rec MatchRecord
	err := tx.QueryRow(ctx, `
INSERT INTO matches (user_a_id, user_b_id, is_active, created_at)
VALUES ($1, $2, TRUE, $3)
ON CONFLICT (user_a_id, user_b_id) WHERE is_active DO NOTHING
RETURNING id, user_a_id, user_b_id, is_active, created_at
`, userA, userB, now.UTC()).Scan(
		&rec.ID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.IsActive,
		&rec.CreatedAt,
	)
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		if isUniqueViolation(err) {
			// Another tx created the pair between our insert and now;
			// fall through to the idempotent read.
			existing, lookupErr := r.findActivePair(ctx, tx, userA, userB)
			if lookupErr != nil {
				return MatchRecord{}, false, lookupErr
			}
			return existing, false, nil
		}
		return MatchRecord{}, false, fmt.Errorf("create match: %w", err)
	}

	existing, lookupErr := r.findActivePair(ctx, tx, userA, userB)
	if lookupErr != nil {
		return MatchRecord{}, false, lookupErr
	}
	return existing, false, nil
}

func (r *MatchRepo) findActivePair(ctx context.Context, tx pgx.Tx, userA, userB int64) (MatchRecord, error) {
	var rec MatchRecord
	err := tx.QueryRow(ctx, `
SELECT id, user_a_id, user_b_id, is_active, created_at
FROM matches
WHERE user_a_id = $1 AND user_b_id = $2 AND is_active
`, userA, userB).Scan(
		&rec.ID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.IsActive,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MatchRecord{}, ErrMatchNotFound
		}
		return MatchRecord{}, fmt.Errorf("find active match: %w", err)
	}

	return rec, nil
}

func (r *MatchRepo) GetByID(ctx context.Context, matchID int64) (MatchRecord, error) {
	if r.pool == nil {
		return MatchRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if matchID <= 0 {
		return MatchRecord{}, fmt.Errorf("invalid match id")
	}

	var rec MatchRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, user_a_id, user_b_id, is_active, created_at
FROM matches
WHERE id = $1
`, matchID).Scan(
		&rec.ID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.IsActive,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MatchRecord{}, ErrMatchNotFound
		}
		return MatchRecord{}, fmt.Errorf("get match by id: %w", err)
	}

	return rec, nil
}

func (r *MatchRepo) ListActiveForUser(ctx context.Context, userID int64, limit int) ([]MatchSummaryRecord, error) {
	if r.pool == nil {
		return []MatchSummaryRecord{}, nil
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	m.id,
	CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END AS other_user_id,
	COALESCE(p.name, ''),
	COALESCE(p.photo_url, ''),
	COALESCE(p.location, ''),
	m.created_at
FROM matches m
LEFT JOIN profiles p ON p.user_id = CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END
WHERE (m.user_a_id = $1 OR m.user_b_id = $1) AND m.is_active
ORDER BY m.created_at DESC, m.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list active matches: %w", err)
	}
	defer rows.Close()

	items := make([]MatchSummaryRecord, 0, limit)
	for rows.Next() {
		var item MatchSummaryRecord
		if err := rows.Scan(
			&item.MatchID,
			&item.OtherUserID,
			&item.Name,
			&item.PhotoURL,
			&item.Location,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan active match: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate active matches: %w", rows.Err())
	}

	return items, nil
}

// Deactivate soft-closes the match. The row and its messages survive until
// the retention cleanup removes them.
func (r *MatchRepo) Deactivate(ctx context.Context, matchID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if matchID <= 0 {
		return fmt.Errorf("invalid match id")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE matches
SET is_active = FALSE
WHERE id = $1
`, matchID)
	if err != nil {
		return fmt.Errorf("deactivate match: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrMatchNotFound
	}

	return nil
}

func (r *MatchRepo) ListDeactivatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]int64, error) {
	if r.pool == nil {
		return []int64{}, nil
	}
	if limit <= 0 {
		limit = 500
	}

	rows, err := r.pool.Query(ctx, `
SELECT id
FROM matches
WHERE NOT is_active AND created_at < $1
ORDER BY id
LIMIT $2
`, cutoff.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("list deactivated matches: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, limit)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan deactivated match id: %w", err)
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate deactivated matches: %w", rows.Err())
	}

	return ids, nil
}

// DeleteWithMessages removes a match and its messages as one atomic unit.
// Messages are owned by the match and must never outlive it.
func (r *MatchRepo) DeleteWithMessages(ctx context.Context, tx pgx.Tx, matchID int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if matchID <= 0 {
		return fmt.Errorf("invalid match id")
	}

	if _, err := tx.Exec(ctx, `
DELETE FROM messages
WHERE match_id = $1
`, matchID); err != nil {
		return fmt.Errorf("delete match messages: %w", err)
	}

	result, err := tx.Exec(ctx, `
DELETE FROM matches
WHERE id = $1
`, matchID)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrMatchNotFound
	}

	return nil
}
