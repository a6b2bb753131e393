package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingRepo struct {
	pool *pgxpool.Pool
}

type BookingRecord struct {
	ID          string
	TouristID   int64
	GuideID     int64
	PointsCost  int
	Status      string
	ScheduledAt time.Time
	CreatedAt   time.Time
}

func NewBookingRepo(pool *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{pool: pool}
}

func (r *BookingRepo) Create(ctx context.Context, tx pgx.Tx, touristID, guideID int64, pointsCost int, scheduledAt, now time.Time) (BookingRecord, error) {
	if tx == nil {
		return BookingRecord{}, fmt.Errorf("transaction is required")
	}
	if touristID <= 0 || guideID <= 0 || pointsCost <= 0 {
		return BookingRecord{}, fmt.Errorf("invalid booking payload")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	rec := BookingRecord{
		ID:          uuid.NewString(),
		TouristID:   touristID,
		GuideID:     guideID,
		PointsCost:  pointsCost,
		Status:      "pending",
		ScheduledAt: scheduledAt.UTC(),
		CreatedAt:   now.UTC(),
	}
	if _, err := tx.Exec(ctx, `
INSERT INTO bookings (id, tourist_id, guide_id, points_cost, status, scheduled_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, rec.ID, rec.TouristID, rec.GuideID, rec.PointsCost, rec.Status, rec.ScheduledAt, rec.CreatedAt); err != nil {
		return BookingRecord{}, fmt.Errorf("create booking: %w", err)
	}

	return rec, nil
}

// LockByID reads the booking under FOR UPDATE so a status transition and
// its ledger side effects commit against a stable row.
func (r *BookingRepo) LockByID(ctx context.Context, tx pgx.Tx, bookingID string) (BookingRecord, error) {
	if tx == nil {
		return BookingRecord{}, fmt.Errorf("transaction is required")
	}
	if bookingID == "" {
		return BookingRecord{}, fmt.Errorf("booking id is required")
	}

	var rec BookingRecord
	err := tx.QueryRow(ctx, `
SELECT id, tourist_id, guide_id, points_cost, status, scheduled_at, created_at
FROM bookings
WHERE id = $1
FOR UPDATE
`, bookingID).Scan(
		&rec.ID,
		&rec.TouristID,
		&rec.GuideID,
		&rec.PointsCost,
		&rec.Status,
		&rec.ScheduledAt,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BookingRecord{}, ErrBookingNotFound
		}
		return BookingRecord{}, fmt.Errorf("lock booking: %w", err)
	}

	return rec, nil
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, bookingID, status string) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if bookingID == "" || status == "" {
		return fmt.Errorf("invalid booking status payload")
	}

	result, err := tx.Exec(ctx, `
UPDATE bookings
SET status = $2
WHERE id = $1
`, bookingID, status)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func (r *BookingRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]BookingRecord, error) {
	if r.pool == nil {
		return []BookingRecord{}, nil
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, tourist_id, guide_id, points_cost, status, scheduled_at, created_at
FROM bookings
WHERE tourist_id = $1 OR guide_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	items := make([]BookingRecord, 0, limit)
	for rows.Next() {
		var rec BookingRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.TouristID,
			&rec.GuideID,
			&rec.PointsCost,
			&rec.Status,
			&rec.ScheduledAt,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate bookings: %w", rows.Err())
	}

	return items, nil
}
