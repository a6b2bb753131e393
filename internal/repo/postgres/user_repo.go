package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type UserRepo struct {
	pool *pgxpool.Pool
}

type UserRecord struct {
	ID            int64
	Email         string
	PasswordHash  string
	PointsBalance int
	TotalEarned   int
	TotalSpent    int
	IsActive      bool
	CreatedAt     time.Time
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create inserts a user with a zero balance; the welcome grant goes
// through the ledger afterwards so the transaction log accounts for every
// point the user ever held.
func (r *UserRepo) Create(ctx context.Context, tx pgx.Tx, email, passwordHash string, now time.Time) (UserRecord, error) {
	if tx == nil {
		return UserRecord{}, fmt.Errorf("transaction is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || passwordHash == "" {
		return UserRecord{}, fmt.Errorf("invalid user payload")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec UserRecord
	err := tx.QueryRow(ctx, `
INSERT INTO users (
	email,
	password_hash,
	points_balance,
	total_points_earned,
	total_points_spent,
	is_active,
	created_at
) VALUES ($1, $2, 0, 0, 0, TRUE, $3)
RETURNING id, email, password_hash, points_balance, total_points_earned, total_points_spent, is_active, created_at
`, email, passwordHash, now.UTC()).Scan(
		&rec.ID,
		&rec.Email,
		&rec.PasswordHash,
		&rec.PointsBalance,
		&rec.TotalEarned,
		&rec.TotalSpent,
		&rec.IsActive,
		&rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return UserRecord{}, ErrEmailTaken
		}
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}

	return rec, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return UserRecord{}, fmt.Errorf("email is required")
	}

	var rec UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, points_balance, total_points_earned, total_points_spent, is_active, created_at
FROM users
WHERE email = $1
`, email).Scan(
		&rec.ID,
		&rec.Email,
		&rec.PasswordHash,
		&rec.PointsBalance,
		&rec.TotalEarned,
		&rec.TotalSpent,
		&rec.IsActive,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("find user by email: %w", err)
	}

	return rec, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}

	var rec UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, points_balance, total_points_earned, total_points_spent, is_active, created_at
FROM users
WHERE id = $1
`, userID).Scan(
		&rec.ID,
		&rec.Email,
		&rec.PasswordHash,
		&rec.PointsBalance,
		&rec.TotalEarned,
		&rec.TotalSpent,
		&rec.IsActive,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user by id: %w", err)
	}

	return rec, nil
}

// Deactivate soft-disables the account. Ledger and swipe history stay
// intact; physical deletion would orphan the audit trail.
func (r *UserRepo) Deactivate(ctx context.Context, userID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE users
SET is_active = FALSE
WHERE id = $1
`, userID)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
