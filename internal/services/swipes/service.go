package swipes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mr0kk/hackYeah2025-guidy/internal/domain/enums"
	pgrepo "github.com/mr0kk/hackYeah2025-guidy/internal/repo/postgres"
)

const matchRewardReason = "match bonus"

var (
	ErrValidation           = errors.New("validation error")
	ErrSelfSwipe            = errors.New("cannot swipe on yourself")
	ErrUnsupportedDirection = errors.New("unsupported swipe direction")
	ErrDuplicateSwipe       = errors.New("swipe already recorded")
)

type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too fast"
}

func (e TooFastError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}

type SwipeStore interface {
	LockPair(ctx context.Context, tx pgx.Tx, userID, targetID int64) error
	Create(ctx context.Context, tx pgx.Tx, swiperID, swipedID int64, direction enums.SwipeDirection, now time.Time) (pgrepo.SwipeRecord, error)
	ReverseLikeExists(ctx context.Context, tx pgx.Tx, swiperID, swipedID int64) (bool, error)
}

type MatchStore interface {
	CreateIfAbsent(ctx context.Context, tx pgx.Tx, userID, targetID int64, now time.Time) (pgrepo.MatchRecord, bool, error)
}

type LedgerStore interface {
	ApplyAdjustment(ctx context.Context, tx pgx.Tx, userID int64, amount int, reason string, now time.Time) (pgrepo.TransactionRecord, pgrepo.BalanceRecord, error)
}

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error)
}

type RateLimiter interface {
	AllowSwipe(ctx context.Context, userID int64) (int64, bool, error)
}

type Config struct {
	MatchReward int
}

type SwipeResult struct {
	Direction       enums.SwipeDirection
	MatchCreated    bool
	MatchID         int64
	MatchedWith     int64
	MatchedName     string
	MatchedPhotoURL string
	MatchedLocation string
}

type Service struct {
	pool         *pgxpool.Pool
	swipeStore   SwipeStore
	matchStore   MatchStore
	ledgerStore  LedgerStore
	profileStore ProfileStore
	rateLimiter  RateLimiter
	cfg          Config
	runTx        func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	now          func() time.Time
}

type Dependencies struct {
	Pool         *pgxpool.Pool
	SwipeStore   SwipeStore
	MatchStore   MatchStore
	LedgerStore  LedgerStore
	ProfileStore ProfileStore
	RateLimiter  RateLimiter
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.MatchReward < 0 {
		cfg.MatchReward = 0
	}

	return &Service{
		pool:         deps.Pool,
		swipeStore:   deps.SwipeStore,
		matchStore:   deps.MatchStore,
		ledgerStore:  deps.LedgerStore,
		profileStore: deps.ProfileStore,
		rateLimiter:  deps.RateLimiter,
		cfg:          cfg,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, deps.Pool, fn)
		},
		now: time.Now,
	}
}

// Swipe records a one-time decision on a target. A like that meets an
// existing reciprocal like produces the match inside the same transaction,
// so either both rows commit or neither does.
func (s *Service) Swipe(ctx context.Context, userID, targetID int64, direction string) (SwipeResult, error) {
	if userID <= 0 || targetID <= 0 {
		return SwipeResult{}, ErrValidation
	}
	if userID == targetID {
		return SwipeResult{}, ErrSelfSwipe
	}

	parsed, ok := enums.ParseSwipeDirection(direction)
	if !ok {
		return SwipeResult{}, ErrUnsupportedDirection
	}

	if s.swipeStore == nil || s.matchStore == nil {
		return SwipeResult{}, fmt.Errorf("swipe dependencies are not configured")
	}

	if s.rateLimiter != nil {
		retryAfter, allowed, err := s.rateLimiter.AllowSwipe(ctx, userID)
		if err != nil {
			return SwipeResult{}, fmt.Errorf("apply swipe rate limiter: %w", err)
		}
		if !allowed {
			return SwipeResult{}, TooFastError{RetryAfterSec: retryAfter}
		}
	}

	now := s.now().UTC()
	result := SwipeResult{Direction: parsed}

	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		// Serialize per pair before touching the swipes table. Without
		// this, two concurrent mutual likes each miss the other's
		// uncommitted reverse swipe and neither resolves the match.
		if err := s.swipeStore.LockPair(txCtx, tx, userID, targetID); err != nil {
			return err
		}

		if _, err := s.swipeStore.Create(txCtx, tx, userID, targetID, parsed, now); err != nil {
			if errors.Is(err, pgrepo.ErrSwipeExists) {
				return ErrDuplicateSwipe
			}
			return err
		}

		if !parsed.IsLike() {
			return nil
		}

		reciprocal, err := s.swipeStore.ReverseLikeExists(txCtx, tx, userID, targetID)
		if err != nil {
			return err
		}
		if !reciprocal {
			return nil
		}

		match, created, err := s.matchStore.CreateIfAbsent(txCtx, tx, userID, targetID, now)
		if err != nil {
			return err
		}

		result.MatchCreated = created
		result.MatchID = match.ID
		if match.UserAID == userID {
			result.MatchedWith = match.UserBID
		} else {
			result.MatchedWith = match.UserAID
		}

		if created && s.cfg.MatchReward > 0 && s.ledgerStore != nil {
			for _, participant := range []int64{match.UserAID, match.UserBID} {
				if _, _, err := s.ledgerStore.ApplyAdjustment(txCtx, tx, participant, s.cfg.MatchReward, matchRewardReason, now); err != nil {
					return fmt.Errorf("grant match reward: %w", err)
				}
			}
		}

		return nil
	}); err != nil {
		return SwipeResult{}, err
	}

	if result.MatchID != 0 && s.profileStore != nil {
		// The match row is already committed at this point. A missing
		// profile only degrades the response to a bare id.
		profile, err := s.profileStore.GetByUserID(ctx, result.MatchedWith)
		if err == nil {
			result.MatchedName = profile.Name
			result.MatchedPhotoURL = profile.PhotoURL
			result.MatchedLocation = profile.Location
		} else if !errors.Is(err, pgrepo.ErrProfileNotFound) {
			return SwipeResult{}, fmt.Errorf("load matched profile: %w", err)
		}
	}

	return result, nil
}
