package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mr0kk/hackYeah2025-guidy/internal/domain/enums"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

type ProfileRecord struct {
	ID          int64
	UserID      int64
	Name        string
	Age         int
	Bio         string
	Location    string
	PhotoURL    string
	Photos      []string
	Type        string
	HourlyRate  int
	Specialties []string
	Languages   []string
	UpdatedAt   time.Time
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Upsert(ctx context.Context, rec ProfileRecord, now time.Time) (ProfileRecord, error) {
	if r.pool == nil {
		return ProfileRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if rec.UserID <= 0 || strings.TrimSpace(rec.Name) == "" {
		return ProfileRecord{}, fmt.Errorf("invalid profile payload")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var out ProfileRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO profiles (
	user_id, name, age, bio, location, photo_url, photos,
	profile_type, hourly_rate, specialties, languages, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (user_id) DO UPDATE SET
	name = EXCLUDED.name,
	age = EXCLUDED.age,
	bio = EXCLUDED.bio,
	location = EXCLUDED.location,
	photo_url = EXCLUDED.photo_url,
	photos = EXCLUDED.photos,
	profile_type = EXCLUDED.profile_type,
	hourly_rate = EXCLUDED.hourly_rate,
	specialties = EXCLUDED.specialties,
	languages = EXCLUDED.languages,
	updated_at = EXCLUDED.updated_at
RETURNING id, user_id, name, age, bio, location, photo_url, photos,
	profile_type, hourly_rate, specialties, languages, updated_at
`,
		rec.UserID,
		strings.TrimSpace(rec.Name),
		rec.Age,
		rec.Bio,
		rec.Location,
		rec.PhotoURL,
		stringSlice(rec.Photos),
		rec.Type,
		rec.HourlyRate,
		stringSlice(rec.Specialties),
		stringSlice(rec.Languages),
		now.UTC(),
	).Scan(
		&out.ID,
		&out.UserID,
		&out.Name,
		&out.Age,
		&out.Bio,
		&out.Location,
		&out.PhotoURL,
		&out.Photos,
		&out.Type,
		&out.HourlyRate,
		&out.Specialties,
		&out.Languages,
		&out.UpdatedAt,
	)
	if err != nil {
		return ProfileRecord{}, fmt.Errorf("upsert profile: %w", err)
	}

	return out, nil
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID int64) (ProfileRecord, error) {
	if r.pool == nil {
		return ProfileRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return ProfileRecord{}, fmt.Errorf("invalid user id")
	}

	var rec ProfileRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, user_id, name, age, bio, location, photo_url, photos,
	profile_type, hourly_rate, specialties, languages, updated_at
FROM profiles
WHERE user_id = $1
`, userID).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Name,
		&rec.Age,
		&rec.Bio,
		&rec.Location,
		&rec.PhotoURL,
		&rec.Photos,
		&rec.Type,
		&rec.HourlyRate,
		&rec.Specialties,
		&rec.Languages,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRecord{}, ErrProfileNotFound
		}
		return ProfileRecord{}, fmt.Errorf("get profile by user: %w", err)
	}

	return rec, nil
}

// ListGuideCandidates returns guide-typed profiles of active users that
// userID has not yet swiped on.
func (r *ProfileRepo) ListGuideCandidates(ctx context.Context, userID int64, limit int) ([]ProfileRecord, error) {
	if r.pool == nil {
		return []ProfileRecord{}, nil
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.pool.Query(ctx, `
SELECT p.id, p.user_id, p.name, p.age, p.bio, p.location, p.photo_url, p.photos,
	p.profile_type, p.hourly_rate, p.specialties, p.languages, p.updated_at
FROM profiles p
JOIN users u ON u.id = p.user_id
WHERE
	p.user_id <> $1
	AND u.is_active
	AND p.profile_type IN ($2, $3)
	AND NOT EXISTS (
		SELECT 1
		FROM swipes s
		WHERE s.swiper_id = $1 AND s.swiped_id = p.user_id
	)
ORDER BY p.updated_at DESC, p.id DESC
LIMIT $4
`, userID, string(enums.ProfileTypeGuide), string(enums.ProfileTypeBoth), limit)
	if err != nil {
		return nil, fmt.Errorf("list guide candidates: %w", err)
	}
	defer rows.Close()

	items := make([]ProfileRecord, 0, limit)
	for rows.Next() {
		var rec ProfileRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Name,
			&rec.Age,
			&rec.Bio,
			&rec.Location,
			&rec.PhotoURL,
			&rec.Photos,
			&rec.Type,
			&rec.HourlyRate,
			&rec.Specialties,
			&rec.Languages,
			&rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan guide candidate: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate guide candidates: %w", rows.Err())
	}

	return items, nil
}

// stringSlice keeps text[] columns non-null; an absent list is stored as
// an empty array.
func stringSlice(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
