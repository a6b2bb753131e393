package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgrepo "github.com/mr0kk/hackYeah2025-guidy/internal/repo/postgres"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrMatchNotFound  = errors.New("match not found")
	ErrNotParticipant = errors.New("user is not part of this match")
)

type MatchStore interface {
	GetByID(ctx context.Context, matchID int64) (pgrepo.MatchRecord, error)
	ListActiveForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.MatchSummaryRecord, error)
	Deactivate(ctx context.Context, matchID int64) error
}

type MatchItem struct {
	ID          int64
	OtherUserID int64
	Name        string
	PhotoURL    string
	Location    string
	CreatedAt   time.Time
}

type MatchDetails struct {
	ID          int64
	OtherUserID int64
	IsActive    bool
	CreatedAt   time.Time
}

type Service struct {
	matchStore MatchStore
}

func NewService(matchStore MatchStore) *Service {
	return &Service{matchStore: matchStore}
}

func (s *Service) List(ctx context.Context, userID int64, limit int) ([]MatchItem, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.matchStore == nil {
		return nil, fmt.Errorf("match store is nil")
	}

	rows, err := s.matchStore.ListActiveForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]MatchItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, MatchItem{
			ID:          row.MatchID,
			OtherUserID: row.OtherUserID,
			Name:        row.Name,
			PhotoURL:    row.PhotoURL,
			Location:    row.Location,
			CreatedAt:   row.CreatedAt,
		})
	}
	return items, nil
}

// Get returns the match only to its participants. Outsiders get
// ErrMatchNotFound rather than ErrNotParticipant so the response does not
// confirm the match exists.
func (s *Service) Get(ctx context.Context, userID, matchID int64) (MatchDetails, error) {
	if userID <= 0 || matchID <= 0 {
		return MatchDetails{}, ErrValidation
	}
	if s.matchStore == nil {
		return MatchDetails{}, fmt.Errorf("match store is nil")
	}

	rec, err := s.matchStore.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return MatchDetails{}, ErrMatchNotFound
		}
		return MatchDetails{}, err
	}
	if rec.UserAID != userID && rec.UserBID != userID {
		return MatchDetails{}, ErrMatchNotFound
	}

	other := rec.UserAID
	if other == userID {
		other = rec.UserBID
	}

	return MatchDetails{
		ID:          rec.ID,
		OtherUserID: other,
		IsActive:    rec.IsActive,
		CreatedAt:   rec.CreatedAt,
	}, nil
}

// Deactivate closes the match for both participants. The conversation
// stays readable until the retention cleanup purges it.
func (s *Service) Deactivate(ctx context.Context, userID, matchID int64) error {
	if userID <= 0 || matchID <= 0 {
		return ErrValidation
	}
	if s.matchStore == nil {
		return fmt.Errorf("match store is nil")
	}

	rec, err := s.matchStore.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	if rec.UserAID != userID && rec.UserBID != userID {
		return ErrNotParticipant
	}

	if err := s.matchStore.Deactivate(ctx, matchID); err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	return nil
}
