package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/mr0kk/hackYeah2025-guidy/internal/domain/rules"
	"github.com/mr0kk/hackYeah2025-guidy/internal/pkg/validate"
	pgrepo "github.com/mr0kk/hackYeah2025-guidy/internal/repo/postgres"
)

const (
	minPasswordLength  = 8
	welcomeGrantReason = "welcome bonus"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserDeactivated    = errors.New("user account is deactivated")
)

type UserStore interface {
	Create(ctx context.Context, tx pgx.Tx, email, passwordHash string, now time.Time) (pgrepo.UserRecord, error)
	FindByEmail(ctx context.Context, email string) (pgrepo.UserRecord, error)
	GetByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
	Deactivate(ctx context.Context, userID int64) error
}

type LedgerStore interface {
	ApplyAdjustment(ctx context.Context, tx pgx.Tx, userID int64, amount int, reason string, now time.Time) (pgrepo.TransactionRecord, pgrepo.BalanceRecord, error)
}

type Config struct {
	StartingBalance int
}

type User struct {
	ID            int64
	Email         string
	PointsBalance int
	IsActive      bool
	CreatedAt     time.Time
}

type Service struct {
	pool        *pgxpool.Pool
	userStore   UserStore
	ledgerStore LedgerStore
	cfg         Config
	runTx       func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	now         func() time.Time
}

type Dependencies struct {
	Pool        *pgxpool.Pool
	UserStore   UserStore
	LedgerStore LedgerStore
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.StartingBalance < 0 {
		cfg.StartingBalance = rules.StartingPoints
	}

	return &Service{
		pool:        deps.Pool,
		userStore:   deps.UserStore,
		ledgerStore: deps.LedgerStore,
		cfg:         cfg,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, deps.Pool, fn)
		},
		now: time.Now,
	}
}

// Register creates the account and pays the welcome grant through the
// ledger in the same transaction, so the transaction log always accounts
// for the full balance.
func (s *Service) Register(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validate.Email(email) {
		return User{}, ErrValidation
	}
	if len(password) < minPasswordLength {
		return User{}, ErrValidation
	}
	if s.userStore == nil || s.ledgerStore == nil {
		return User{}, fmt.Errorf("user dependencies are not configured")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()

	var user User
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		rec, err := s.userStore.Create(txCtx, tx, email, string(hash), now)
		if err != nil {
			if errors.Is(err, pgrepo.ErrEmailTaken) {
				return ErrEmailTaken
			}
			return err
		}

		balance := rec.PointsBalance
		if s.cfg.StartingBalance > 0 {
			_, balanceRec, err := s.ledgerStore.ApplyAdjustment(txCtx, tx, rec.ID, s.cfg.StartingBalance, welcomeGrantReason, now)
			if err != nil {
				return fmt.Errorf("grant welcome bonus: %w", err)
			}
			balance = balanceRec.Balance
		}

		user = User{
			ID:            rec.ID,
			Email:         rec.Email,
			PointsBalance: balance,
			IsActive:      rec.IsActive,
			CreatedAt:     rec.CreatedAt,
		}
		return nil
	}); err != nil {
		return User{}, err
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, ErrValidation
	}
	if s.userStore == nil {
		return User{}, fmt.Errorf("user dependencies are not configured")
	}

	rec, err := s.userStore.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	if !rec.IsActive {
		return User{}, ErrUserDeactivated
	}

	return toUser(rec), nil
}

func (s *Service) GetByID(ctx context.Context, userID int64) (User, error) {
	if userID <= 0 {
		return User{}, ErrValidation
	}
	if s.userStore == nil {
		return User{}, fmt.Errorf("user dependencies are not configured")
	}

	rec, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return toUser(rec), nil
}

// Deactivate soft-disables the account. History stays intact.
func (s *Service) Deactivate(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrValidation
	}
	if s.userStore == nil {
		return fmt.Errorf("user dependencies are not configured")
	}

	if err := s.userStore.Deactivate(ctx, userID); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func toUser(rec pgrepo.UserRecord) User {
	return User{
		ID:            rec.ID,
		Email:         rec.Email,
		PointsBalance: rec.PointsBalance,
		IsActive:      rec.IsActive,
		CreatedAt:     rec.CreatedAt,
	}
}
