package users

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	pgrepo "github.com/mr0kk/hackYeah2025-guidy/internal/repo/postgres"
)

type userStoreStub struct {
	createErr       error
	created         pgrepo.UserRecord
	findResult      pgrepo.UserRecord
	findErr         error
	deactivateCalls int
}

func (s *userStoreStub) Create(_ context.Context, _ pgx.Tx, email, passwordHash string, now time.Time) (pgrepo.UserRecord, error) {
	if s.createErr != nil {
		return pgrepo.UserRecord{}, s.createErr
	}
	s.created = pgrepo.UserRecord{
		ID:           1,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
	}
	return s.created, nil
}

func (s *userStoreStub) FindByEmail(context.Context, string) (pgrepo.UserRecord, error) {
	if s.findErr != nil {
		return pgrepo.UserRecord{}, s.findErr
	}
	return s.findResult, nil
}

func (s *userStoreStub) GetByID(context.Context, int64) (pgrepo.UserRecord, error) {
	if s.findErr != nil {
		return pgrepo.UserRecord{}, s.findErr
	}
	return s.findResult, nil
}

func (s *userStoreStub) Deactivate(context.Context, int64) error {
	s.deactivateCalls++
	return nil
}

type ledgerStoreStub struct {
	grantCalls int
	lastAmount int
	lastReason string
}

func (s *ledgerStoreStub) ApplyAdjustment(_ context.Context, _ pgx.Tx, userID int64, amount int, reason string, _ time.Time) (pgrepo.TransactionRecord, pgrepo.BalanceRecord, error) {
	s.grantCalls++
	s.lastAmount = amount
	s.lastReason = reason
	return pgrepo.TransactionRecord{ID: "txn-1", UserID: userID, Amount: amount, Reason: reason},
		pgrepo.BalanceRecord{UserID: userID, Balance: amount, TotalEarned: amount}, nil
}

func newTestService(userStore *userStoreStub, ledgerStore *ledgerStoreStub, cfg Config) *Service {
	return &Service{
		userStore:   userStore,
		ledgerStore: ledgerStore,
		cfg:         cfg,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return fn(ctx, nil)
		},
		now: func() time.Time {
			return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
		},
	}
}

func TestRegisterGrantsWelcomeBonusThroughLedger(t *testing.T) {
	userStore := &userStoreStub{}
	ledgerStore := &ledgerStoreStub{}
	svc := newTestService(userStore, ledgerStore, Config{StartingBalance: 50})

	user, err := svc.Register(context.Background(), " Tourist@Example.COM ", "s3cret-pass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "tourist@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PointsBalance != 50 {
		t.Fatalf("expected welcome balance 50, got %d", user.PointsBalance)
	}
	if ledgerStore.grantCalls != 1 || ledgerStore.lastAmount != 50 || ledgerStore.lastReason != "welcome bonus" {
		t.Fatalf("unexpected welcome grant: calls=%d amount=%d reason=%q",
			ledgerStore.grantCalls, ledgerStore.lastAmount, ledgerStore.lastReason)
	}
	if userStore.created.PasswordHash == "s3cret-pass" {
		t.Fatalf("password must be stored hashed")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(&userStoreStub{}, &ledgerStoreStub{}, Config{StartingBalance: 50})

	if _, err := svc.Register(context.Background(), "not-an-email", "s3cret-pass"); err != ErrValidation {
		t.Fatalf("expected ErrValidation for bad email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "a@b.com", "short"); err != ErrValidation {
		t.Fatalf("expected ErrValidation for short password, got %v", err)
	}
}

func TestRegisterMapsDuplicateEmail(t *testing.T) {
	userStore := &userStoreStub{createErr: pgrepo.ErrEmailTaken}
	svc := newTestService(userStore, &ledgerStoreStub{}, Config{StartingBalance: 50})

	if _, err := svc.Register(context.Background(), "a@b.com", "s3cret-pass"); err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginChecksPasswordAndActivity(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash fixture password: %v", err)
	}

	userStore := &userStoreStub{
		findResult: pgrepo.UserRecord{ID: 1, Email: "a@b.com", PasswordHash: string(hash), IsActive: true},
	}
	svc := newTestService(userStore, &ledgerStoreStub{}, Config{})

	user, err := svc.Login(context.Background(), "a@b.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.Login(context.Background(), "a@b.com", "wrong-pass"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	userStore.findResult.IsActive = false
	if _, err := svc.Login(context.Background(), "a@b.com", "s3cret-pass"); err != ErrUserDeactivated {
		t.Fatalf("expected ErrUserDeactivated, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	userStore := &userStoreStub{findErr: pgrepo.ErrUserNotFound}
	svc := newTestService(userStore, &ledgerStoreStub{}, Config{})

	if _, err := svc.Login(context.Background(), "a@b.com", "whatever-pass"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
