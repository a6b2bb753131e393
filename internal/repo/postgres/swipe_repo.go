package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mr0kk/hackYeah2025-guidy/internal/domain/enums"
	"github.com/mr0kk/hackYeah2025-guidy/internal/domain/model"
)

var ErrSwipeExists = errors.New("swipe already recorded for this pair")

type SwipeRepo struct {
	pool *pgxpool.Pool
}

type SwipeRecord struct {
	ID        int64
	SwiperID  int64
	SwipedID  int64
	Direction string
	CreatedAt time.Time
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

// LockPair takes a transaction-scoped advisory lock on the unordered user
// pair. Both directions of a mutual like hash to the same key, so the two
// swipe transactions serialize and the second one always sees the first
// one's committed swipe when it checks for the reciprocal like.
func (r *SwipeRepo) LockPair(ctx context.Context, tx pgx.Tx, userID, targetID int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if userID <= 0 || targetID <= 0 {
		return fmt.Errorf("invalid pair")
	}

	userA, userB := model.CanonicalPair(userID, targetID)
	if _, err := tx.Exec(ctx, `
SELECT pg_advisory_xact_lock(hashtextextended($1::text || ':' || $2::text, 0))
`, userA, userB); err != nil {
		return fmt.Errorf("lock swipe pair: %w", err)
	}

	return nil
}

// Create persists the one-time decision. The unique index on
// (swiper_id, swiped_id) makes a repeat attempt fail with ErrSwipeExists;
// the original row is never overwritten.
func (r *SwipeRepo) Create(ctx context.Context, tx pgx.Tx, swiperID, swipedID int64, direction enums.SwipeDirection, now time.Time) (SwipeRecord, error) {
	if tx == nil {
		return SwipeRecord{}, fmt.Errorf("transaction is required")
	}
	if swiperID <= 0 || swipedID <= 0 {
		return SwipeRecord{}, fmt.Errorf("invalid swipe payload")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec SwipeRecord
	err := tx.QueryRow(ctx, `
INSERT INTO swipes (swiper_id, swiped_id, direction, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id, swiper_id, swiped_id, direction, created_at
`, swiperID, swipedID, string(direction), now.UTC()).Scan(
		&rec.ID,
		&rec.SwiperID,
		&rec.SwipedID,
		&rec.Direction,
		&rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return SwipeRecord{}, ErrSwipeExists
		}
		return SwipeRecord{}, fmt.Errorf("create swipe: %w", err)
	}

	return rec, nil
}

// ReverseLikeExists reports whether swipedID has already liked swiperID
// (like or super_like). Used by the match resolver.
func (r *SwipeRepo) ReverseLikeExists(ctx context.Context, tx pgx.Tx, swiperID, swipedID int64) (bool, error) {
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}
	if swiperID <= 0 || swipedID <= 0 {
		return false, fmt.Errorf("invalid swipe lookup payload")
	}

	var one int
	err := tx.QueryRow(ctx, `
SELECT 1
FROM swipes
WHERE swiper_id = $1 AND swiped_id = $2 AND direction IN ('like', 'super_like')
LIMIT 1
`, swipedID, swiperID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup reciprocal like: %w", err)
	}

	return true, nil
}
