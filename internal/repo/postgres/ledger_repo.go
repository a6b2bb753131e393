package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrInsufficientBalance = errors.New("insufficient points balance")

type LedgerRepo struct {
	pool *pgxpool.Pool
}

type TransactionRecord struct {
	ID        string
	UserID    int64
	Amount    int
	Reason    string
	CreatedAt time.Time
}

type BalanceRecord struct {
	UserID      int64
	Balance     int
	TotalEarned int
	TotalSpent  int
}

func NewLedgerRepo(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// ApplyAdjustment moves the balance by amount and appends the audit row in
// the caller's transaction. The UPDATE carries the non-negative-balance
// guard, so two concurrent adjustments serialize on the user row and a
// spend can never overdraw regardless of interleaving.
func (r *LedgerRepo) ApplyAdjustment(ctx context.Context, tx pgx.Tx, userID int64, amount int, reason string, now time.Time) (TransactionRecord, BalanceRecord, error) {
	if tx == nil {
		return TransactionRecord{}, BalanceRecord{}, fmt.Errorf("transaction is required")
	}
	if userID <= 0 || amount == 0 {
		return TransactionRecord{}, BalanceRecord{}, fmt.Errorf("invalid adjustment payload")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	earnedDelta := 0
	spentDelta := 0
	if amount > 0 {
		earnedDelta = amount
	} else {
		spentDelta = -amount
	}

	var balance BalanceRecord
	err := tx.QueryRow(ctx, `
UPDATE users
SET
	points_balance = points_balance + $2,
	total_points_earned = total_points_earned + $3,
	total_points_spent = total_points_spent + $4
WHERE id = $1 AND points_balance + $2 >= 0
RETURNING id, points_balance, total_points_earned, total_points_spent
`, userID, amount, earnedDelta, spentDelta).Scan(
		&balance.UserID,
		&balance.Balance,
		&balance.TotalEarned,
		&balance.TotalSpent,
	)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return TransactionRecord{}, BalanceRecord{}, fmt.Errorf("apply balance adjustment: %w", err)
		}
		// Guarded update matched nothing: either the user is missing or
		// the spend would overdraw. Distinguish for the caller.
		var one int
		lookupErr := tx.QueryRow(ctx, `SELECT 1 FROM users WHERE id = $1`, userID).Scan(&one)
		if lookupErr != nil {
			if errors.Is(lookupErr, pgx.ErrNoRows) {
				return TransactionRecord{}, BalanceRecord{}, ErrUserNotFound
			}
			return TransactionRecord{}, BalanceRecord{}, fmt.Errorf("lookup user for adjustment: %w", lookupErr)
		}
		return TransactionRecord{}, BalanceRecord{}, ErrInsufficientBalance
	}

	rec := TransactionRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Reason:    strings.TrimSpace(reason),
		CreatedAt: now.UTC(),
	}
	if _, err := tx.Exec(ctx, `
INSERT INTO point_transactions (id, user_id, amount, reason, created_at)
VALUES ($1, $2, $3, $4, $5)
`, rec.ID, rec.UserID, rec.Amount, rec.Reason, rec.CreatedAt); err != nil {
		return TransactionRecord{}, BalanceRecord{}, fmt.Errorf("append point transaction: %w", err)
	}

	return rec, balance, nil
}

func (r *LedgerRepo) BalanceOf(ctx context.Context, userID int64) (BalanceRecord, error) {
	if r.pool == nil {
		return BalanceRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return BalanceRecord{}, fmt.Errorf("invalid user id")
	}

	var balance BalanceRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, points_balance, total_points_earned, total_points_spent
FROM users
WHERE id = $1
`, userID).Scan(
		&balance.UserID,
		&balance.Balance,
		&balance.TotalEarned,
		&balance.TotalSpent,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BalanceRecord{}, ErrUserNotFound
		}
		return BalanceRecord{}, fmt.Errorf("get points balance: %w", err)
	}

	return balance, nil
}

func (r *LedgerRepo) ListTransactions(ctx context.Context, userID int64, limit int) ([]TransactionRecord, error) {
	if r.pool == nil {
		return []TransactionRecord{}, nil
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, amount, reason, created_at
FROM point_transactions
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list point transactions: %w", err)
	}
	defer rows.Close()

	items := make([]TransactionRecord, 0, limit)
	for rows.Next() {
		var rec TransactionRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Amount, &rec.Reason, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan point transaction: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate point transactions: %w", rows.Err())
	}

	return items, nil
}
