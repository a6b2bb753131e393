package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mr0kk/hackYeah2025-guidy/internal/domain/enums"
	"github.com/mr0kk/hackYeah2025-guidy/internal/domain/rules"
	pgrepo "github.com/mr0kk/hackYeah2025-guidy/internal/repo/postgres"
)

const (
	minAge = 18
	maxAge = 120
)

var (
	ErrValidation      = errors.New("validation error")
	ErrUnsupportedType = errors.New("unsupported profile type")
	ErrProfileNotFound = errors.New("profile not found")
)

type ProfileStore interface {
	Upsert(ctx context.Context, rec pgrepo.ProfileRecord, now time.Time) (pgrepo.ProfileRecord, error)
	GetByUserID(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error)
	ListGuideCandidates(ctx context.Context, userID int64, limit int) ([]pgrepo.ProfileRecord, error)
}

type UpsertInput struct {
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
}

type Profile struct {
	UserID      int64
	Name        string
	Age         int
	Bio         string
	Location    string
	PhotoURL    string
	Photos      []string
	Type        enums.ProfileType
	HourlyRate  int
	Specialties []string
	Languages   []string
	UpdatedAt   time.Time
}

type Service struct {
	profileStore ProfileStore
	now          func() time.Time
}

func NewService(profileStore ProfileStore) *Service {
	return &Service{
		profileStore: profileStore,
		now:          time.Now,
	}
}

func (s *Service) Upsert(ctx context.Context, userID int64, input UpsertInput) (Profile, error) {
	if userID <= 0 {
		return Profile{}, ErrValidation
	}
	if s.profileStore == nil {
		return Profile{}, fmt.Errorf("profile store is nil")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Profile{}, ErrValidation
	}
	if input.Age < minAge || input.Age > maxAge {
		return Profile{}, ErrValidation
	}

	profileType, ok := enums.ParseProfileType(input.Type)
	if !ok {
		return Profile{}, ErrUnsupportedType
	}
	if input.HourlyRate < 0 {
		return Profile{}, ErrValidation
	}
	if profileType.CanGuide() && input.HourlyRate == 0 {
		input.HourlyRate = rules.DefaultHourlyRate
	}

	rec, err := s.profileStore.Upsert(ctx, pgrepo.ProfileRecord{
		UserID:      userID,
		Name:        name,
		Age:         input.Age,
		Bio:         strings.TrimSpace(input.Bio),
		Location:    strings.TrimSpace(input.Location),
		PhotoURL:    strings.TrimSpace(input.PhotoURL),
		Photos:      input.Photos,
		Type:        string(profileType),
		HourlyRate:  input.HourlyRate,
		Specialties: input.Specialties,
		Languages:   input.Languages,
	}, s.now().UTC())
	if err != nil {
		return Profile{}, fmt.Errorf("upsert profile: %w", err)
	}

	return toProfile(rec), nil
}

func (s *Service) Get(ctx context.Context, userID int64) (Profile, error) {
	if userID <= 0 {
		return Profile{}, ErrValidation
	}
	if s.profileStore == nil {
		return Profile{}, fmt.Errorf("profile store is nil")
	}

	rec, err := s.profileStore.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, err
	}
	return toProfile(rec), nil
}

// Candidates returns guide profiles userID has not yet swiped on.
func (s *Service) Candidates(ctx context.Context, userID int64, limit int) ([]Profile, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.profileStore == nil {
		return nil, fmt.Errorf("profile store is nil")
	}

	records, err := s.profileStore.ListGuideCandidates(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]Profile, 0, len(records))
	for _, rec := range records {
		items = append(items, toProfile(rec))
	}
	return items, nil
}

func toProfile(rec pgrepo.ProfileRecord) Profile {
	profileType, _ := enums.ParseProfileType(rec.Type)
	return Profile{
		UserID:      rec.UserID,
		Name:        rec.Name,
		Age:         rec.Age,
		Bio:         rec.Bio,
		Location:    rec.Location,
		PhotoURL:    rec.PhotoURL,
		Photos:      rec.Photos,
		Type:        profileType,
		HourlyRate:  rec.HourlyRate,
		Specialties: rec.Specialties,
		Languages:   rec.Languages,
		UpdatedAt:   rec.UpdatedAt,
	}
}
