package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	pgrepo "github.com/mr0kk/hackYeah2025-guidy/internal/repo/postgres"
)

type ledgerStoreStub struct {
	applyCalls  int
	lastAmount  int
	lastReason  string
	applyErr    error
	balance     pgrepo.BalanceRecord
	balanceErr  error
	history     []pgrepo.TransactionRecord
	historyErr  error
	lastHistory int
}

func (s *ledgerStoreStub) ApplyAdjustment(_ context.Context, _ pgx.Tx, userID int64, amount int, reason string, now time.Time) (pgrepo.TransactionRecord, pgrepo.BalanceRecord, error) {
	s.applyCalls++
	s.lastAmount = amount
	s.lastReason = reason
	if s.applyErr != nil {
		return pgrepo.TransactionRecord{}, pgrepo.BalanceRecord{}, s.applyErr
	}
	s.balance.Balance += amount
	return pgrepo.TransactionRecord{
		ID:        "txn-1",
		UserID:    userID,
		Amount:    amount,
		Reason:    reason,
		CreatedAt: now,
	}, s.balance, nil
}

func (s *ledgerStoreStub) BalanceOf(context.Context, int64) (pgrepo.BalanceRecord, error) {
	if s.balanceErr != nil {
		return pgrepo.BalanceRecord{}, s.balanceErr
	}
	return s.balance, nil
}

func (s *ledgerStoreStub) ListTransactions(_ context.Context, _ int64, limit int) ([]pgrepo.TransactionRecord, error) {
	s.lastHistory = limit
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return s.history, nil
}

func newTestService(store *ledgerStoreStub) *Service {
	return &Service{
		ledger: store,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return fn(ctx, nil)
		},
		now: func() time.Time {
			return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		},
	}
}

func TestAdjustRecordsEntry(t *testing.T) {
	store := &ledgerStoreStub{balance: pgrepo.BalanceRecord{UserID: 7, Balance: 50}}
	svc := newTestService(store)

	result, err := svc.Adjust(context.Background(), 7, -30, "booking payment")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if store.applyCalls != 1 {
		t.Fatalf("expected one adjustment, got %d", store.applyCalls)
	}
	if result.Balance != 20 {
		t.Fatalf("unexpected balance after spend: %d", result.Balance)
	}
	if result.Entry.Amount != -30 || result.Entry.Reason != "booking payment" {
		t.Fatalf("unexpected entry: %+v", result.Entry)
	}
}

func TestAdjustMapsInsufficientBalance(t *testing.T) {
	store := &ledgerStoreStub{applyErr: pgrepo.ErrInsufficientBalance}
	svc := newTestService(store)

	if _, err := svc.Adjust(context.Background(), 7, -100, "booking payment"); err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestAdjustRejectsInvalidInput(t *testing.T) {
	svc := newTestService(&ledgerStoreStub{})

	cases := []struct {
		name   string
		userID int64
		amount int
		reason string
	}{
		{"zero amount", 7, 0, "noop"},
		{"missing user", 0, 10, "grant"},
		{"blank reason", 7, 10, "   "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Adjust(context.Background(), tc.userID, tc.amount, tc.reason); err != ErrValidation {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCanAfford(t *testing.T) {
	store := &ledgerStoreStub{balance: pgrepo.BalanceRecord{UserID: 7, Balance: 40}}
	svc := newTestService(store)

	ok, err := svc.CanAfford(context.Background(), 7, 40)
	if err != nil {
		t.Fatalf("can afford: %v", err)
	}
	if !ok {
		t.Fatalf("expected exact balance to be affordable")
	}

	ok, err = svc.CanAfford(context.Background(), 7, 41)
	if err != nil {
		t.Fatalf("can afford: %v", err)
	}
	if ok {
		t.Fatalf("expected 41 to be unaffordable with balance 40")
	}
}

func TestCanAffordMapsMissingUser(t *testing.T) {
	store := &ledgerStoreStub{balanceErr: pgrepo.ErrUserNotFound}
	svc := newTestService(store)

	if _, err := svc.CanAfford(context.Background(), 7, 10); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSummaryIncludesLevelAndHistory(t *testing.T) {
	store := &ledgerStoreStub{
		balance: pgrepo.BalanceRecord{UserID: 7, Balance: 80, TotalEarned: 150, TotalSpent: 70},
		history: []pgrepo.TransactionRecord{
			{ID: "b", Amount: -20, Reason: "booking payment"},
			{ID: "a", Amount: 50, Reason: "welcome bonus"},
		},
	}
	svc := newTestService(store)

	summary, err := svc.Summary(context.Background(), 7, 10)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Level.Level != 3 || summary.Level.Name != "Expert" {
		t.Fatalf("unexpected level for 150 earned: %+v", summary.Level)
	}
	if summary.Balance != 80 || summary.TotalEarned != 150 || summary.TotalSpent != 70 {
		t.Fatalf("unexpected summary totals: %+v", summary)
	}
	if len(summary.Transactions) != 2 || summary.Transactions[0].ID != "b" {
		t.Fatalf("unexpected history: %+v", summary.Transactions)
	}
	if store.lastHistory != 10 {
		t.Fatalf("expected history limit 10, got %d", store.lastHistory)
	}
}
