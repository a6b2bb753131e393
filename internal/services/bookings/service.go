package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mr0kk/hackYeah2025-guidy/internal/domain/enums"
	"github.com/mr0kk/hackYeah2025-guidy/internal/domain/rules"
	pgrepo "github.com/mr0kk/hackYeah2025-guidy/internal/repo/postgres"
)

const (
	maxTourHours = 12

	paymentReason = "booking payment"
	payoutReason  = "tour payout"
	rewardReason  = "guide bonus"
	refundReason  = "booking refund"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrNotParticipant    = errors.New("user is not part of this booking")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrInsufficientFunds = errors.New("insufficient points balance")
	ErrNotGuide          = errors.New("target user is not a guide")
	ErrSelfBooking       = errors.New("cannot book yourself")
)

type BookingStore interface {
	Create(ctx context.Context, tx pgx.Tx, touristID, guideID int64, pointsCost int, scheduledAt, now time.Time) (pgrepo.BookingRecord, error)
	LockByID(ctx context.Context, tx pgx.Tx, bookingID string) (pgrepo.BookingRecord, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, bookingID, status string) error
	ListForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.BookingRecord, error)
}

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error)
}

type LedgerStore interface {
	ApplyAdjustment(ctx context.Context, tx pgx.Tx, userID int64, amount int, reason string, now time.Time) (pgrepo.TransactionRecord, pgrepo.BalanceRecord, error)
}

type Config struct {
	GuideReward int
}

type Booking struct {
	ID          string
	TouristID   int64
	GuideID     int64
	PointsCost  int
	Status      enums.BookingStatus
	ScheduledAt time.Time
	CreatedAt   time.Time
}

type Service struct {
	pool         *pgxpool.Pool
	bookingStore BookingStore
	profileStore ProfileStore
	ledgerStore  LedgerStore
	cfg          Config
	runTx        func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	now          func() time.Time
}

type Dependencies struct {
	Pool         *pgxpool.Pool
	BookingStore BookingStore
	ProfileStore ProfileStore
	LedgerStore  LedgerStore
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.GuideReward < 0 {
		cfg.GuideReward = rules.GuideReward
	}

	return &Service{
		pool:         deps.Pool,
		bookingStore: deps.BookingStore,
		profileStore: deps.ProfileStore,
		ledgerStore:  deps.LedgerStore,
		cfg:          cfg,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, deps.Pool, fn)
		},
		now: time.Now,
	}
}

// Book charges the tourist up front and creates a pending booking in the
// same transaction. If the charge would overdraw, nothing is created.
func (s *Service) Book(ctx context.Context, touristID, guideID int64, hours int, scheduledAt time.Time) (Booking, error) {
	if touristID <= 0 || guideID <= 0 {
		return Booking{}, ErrValidation
	}
	if touristID == guideID {
		return Booking{}, ErrSelfBooking
	}
	if hours <= 0 || hours > maxTourHours {
		return Booking{}, ErrValidation
	}
	if s.bookingStore == nil || s.profileStore == nil || s.ledgerStore == nil {
		return Booking{}, fmt.Errorf("booking dependencies are not configured")
	}

	guideProfile, err := s.profileStore.GetByUserID(ctx, guideID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return Booking{}, ErrNotGuide
		}
		return Booking{}, fmt.Errorf("load guide profile: %w", err)
	}

	profileType, _ := enums.ParseProfileType(guideProfile.Type)
	if !profileType.CanGuide() {
		return Booking{}, ErrNotGuide
	}

	cost := rules.BookingCost(guideProfile.HourlyRate, hours)
	if cost <= 0 {
		return Booking{}, ErrValidation
	}

	now := s.now().UTC()
	if scheduledAt.Before(now) {
		return Booking{}, ErrValidation
	}

	var booking Booking
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if _, _, err := s.ledgerStore.ApplyAdjustment(txCtx, tx, touristID, -cost, paymentReason, now); err != nil {
			if errors.Is(err, pgrepo.ErrInsufficientBalance) {
				return ErrInsufficientFunds
			}
			return err
		}

		rec, err := s.bookingStore.Create(txCtx, tx, touristID, guideID, cost, scheduledAt, now)
		if err != nil {
			return err
		}
		booking = toBooking(rec)
		return nil
	}); err != nil {
		return Booking{}, err
	}

	return booking, nil
}

// Confirm is the guide accepting a pending booking.
func (s *Service) Confirm(ctx context.Context, guideID int64, bookingID string) (Booking, error) {
	return s.transition(ctx, guideID, bookingID, enums.BookingStatusConfirmed)
}

// Complete settles a confirmed tour: the guide receives the payout and the
// flat bonus through the ledger atomically with the status change.
func (s *Service) Complete(ctx context.Context, userID int64, bookingID string) (Booking, error) {
	return s.transition(ctx, userID, bookingID, enums.BookingStatusCompleted)
}

// Cancel refunds the tourist in full. Both sides may cancel while the
// booking is pending or confirmed.
func (s *Service) Cancel(ctx context.Context, userID int64, bookingID string) (Booking, error) {
	return s.transition(ctx, userID, bookingID, enums.BookingStatusCancelled)
}

func (s *Service) List(ctx context.Context, userID int64, limit int) ([]Booking, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.bookingStore == nil {
		return nil, fmt.Errorf("booking dependencies are not configured")
	}

	records, err := s.bookingStore.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]Booking, 0, len(records))
	for _, rec := range records {
		items = append(items, toBooking(rec))
	}
	return items, nil
}

func (s *Service) transition(ctx context.Context, userID int64, bookingID string, target enums.BookingStatus) (Booking, error) {
	if userID <= 0 || bookingID == "" {
		return Booking{}, ErrValidation
	}
	if s.bookingStore == nil || s.ledgerStore == nil {
		return Booking{}, fmt.Errorf("booking dependencies are not configured")
	}

	now := s.now().UTC()

	var booking Booking
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		rec, err := s.bookingStore.LockByID(txCtx, tx, bookingID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if rec.TouristID != userID && rec.GuideID != userID {
			return ErrNotParticipant
		}

		current, ok := enums.ParseBookingStatus(rec.Status)
		if !ok || !current.CanTransitionTo(target) {
			return ErrInvalidTransition
		}

		switch target {
		case enums.BookingStatusConfirmed:
			// Only the guide accepts.
			if rec.GuideID != userID {
				return ErrNotParticipant
			}
		case enums.BookingStatusCompleted:
			if _, _, err := s.ledgerStore.ApplyAdjustment(txCtx, tx, rec.GuideID, rec.PointsCost, payoutReason, now); err != nil {
				return fmt.Errorf("pay out guide: %w", err)
			}
			if s.cfg.GuideReward > 0 {
				if _, _, err := s.ledgerStore.ApplyAdjustment(txCtx, tx, rec.GuideID, s.cfg.GuideReward, rewardReason, now); err != nil {
					return fmt.Errorf("grant guide bonus: %w", err)
				}
			}
		case enums.BookingStatusCancelled:
			if _, _, err := s.ledgerStore.ApplyAdjustment(txCtx, tx, rec.TouristID, rec.PointsCost, refundReason, now); err != nil {
				return fmt.Errorf("refund tourist: %w", err)
			}
		}

		if err := s.bookingStore.UpdateStatus(txCtx, tx, bookingID, string(target)); err != nil {
			return err
		}

		rec.Status = string(target)
		booking = toBooking(rec)
		return nil
	}); err != nil {
		return Booking{}, err
	}

	return booking, nil
}

func toBooking(rec pgrepo.BookingRecord) Booking {
	status, _ := enums.ParseBookingStatus(rec.Status)
	return Booking{
		ID:          rec.ID,
		TouristID:   rec.TouristID,
		GuideID:     rec.GuideID,
		PointsCost:  rec.PointsCost,
		Status:      status,
		ScheduledAt: rec.ScheduledAt,
		CreatedAt:   rec.CreatedAt,
	}
}
