package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mr0kk/hackYeah2025-guidy/internal/domain/rules"
	pgrepo "github.com/mr0kk/hackYeah2025-guidy/internal/repo/postgres"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrUserNotFound      = errors.New("user not found")
	ErrInsufficientFunds = errors.New("insufficient points balance")
)

type LedgerStore interface {
	ApplyAdjustment(ctx context.Context, tx pgx.Tx, userID int64, amount int, reason string, now time.Time) (pgrepo.TransactionRecord, pgrepo.BalanceRecord, error)
	BalanceOf(ctx context.Context, userID int64) (pgrepo.BalanceRecord, error)
	ListTransactions(ctx context.Context, userID int64, limit int) ([]pgrepo.TransactionRecord, error)
}

type Entry struct {
	ID        string
	Amount    int
	Reason    string
	CreatedAt time.Time
}

type Summary struct {
	Balance      int
	TotalEarned  int
	TotalSpent   int
	Level        rules.Level
	Transactions []Entry
}

type AdjustResult struct {
	Entry   Entry
	Balance int
}

type Service struct {
	pool   *pgxpool.Pool
	ledger LedgerStore
	runTx  func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	now    func() time.Time
}

func NewService(pool *pgxpool.Pool, ledger LedgerStore) *Service {
	return &Service{
		pool:   pool,
		ledger: ledger,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		},
		now: time.Now,
	}
}

// Adjust moves the balance by amount and appends the audit entry in a
// single transaction. A negative amount that would overdraw fails with
// ErrInsufficientFunds and leaves both the balance and the log untouched.
func (s *Service) Adjust(ctx context.Context, userID int64, amount int, reason string) (AdjustResult, error) {
	if userID <= 0 || amount == 0 || strings.TrimSpace(reason) == "" {
		return AdjustResult{}, ErrValidation
	}
	if s.ledger == nil {
		return AdjustResult{}, fmt.Errorf("ledger dependencies are not configured")
	}

	now := s.now().UTC()

	var result AdjustResult
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		rec, balance, err := s.ledger.ApplyAdjustment(txCtx, tx, userID, amount, reason, now)
		if err != nil {
			switch {
			case errors.Is(err, pgrepo.ErrUserNotFound):
				return ErrUserNotFound
			case errors.Is(err, pgrepo.ErrInsufficientBalance):
				return ErrInsufficientFunds
			}
			return err
		}
		result = AdjustResult{
			Entry: Entry{
				ID:        rec.ID,
				Amount:    rec.Amount,
				Reason:    rec.Reason,
				CreatedAt: rec.CreatedAt,
			},
			Balance: balance.Balance,
		}
		return nil
	}); err != nil {
		return AdjustResult{}, err
	}

	return result, nil
}

// CanAfford is a read-only affordability check. It never reserves points;
// the authoritative guard lives in the spend itself.
func (s *Service) CanAfford(ctx context.Context, userID int64, amount int) (bool, error) {
	if userID <= 0 || amount < 0 {
		return false, ErrValidation
	}
	if s.ledger == nil {
		return false, fmt.Errorf("ledger dependencies are not configured")
	}

	balance, err := s.ledger.BalanceOf(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("read balance: %w", err)
	}

	return balance.Balance >= amount, nil
}

func (s *Service) Summary(ctx context.Context, userID int64, historyLimit int) (Summary, error) {
	if userID <= 0 {
		return Summary{}, ErrValidation
	}
	if s.ledger == nil {
		return Summary{}, fmt.Errorf("ledger dependencies are not configured")
	}

	balance, err := s.ledger.BalanceOf(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Summary{}, ErrUserNotFound
		}
		return Summary{}, fmt.Errorf("read balance: %w", err)
	}

	records, err := s.ledger.ListTransactions(ctx, userID, historyLimit)
	if err != nil {
		return Summary{}, fmt.Errorf("list transactions: %w", err)
	}

	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, Entry{
			ID:        rec.ID,
			Amount:    rec.Amount,
			Reason:    rec.Reason,
			CreatedAt: rec.CreatedAt,
		})
	}

	return Summary{
		Balance:      balance.Balance,
		TotalEarned:  balance.TotalEarned,
		TotalSpent:   balance.TotalSpent,
		Level:        rules.LevelFor(balance.TotalEarned),
		Transactions: entries,
	}, nil
}
