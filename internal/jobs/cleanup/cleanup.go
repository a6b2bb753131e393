package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	pgrepo "github.com/mr0kk/hackYeah2025-guidy/internal/repo/postgres"
)

const purgeBatchSize = 500

type matchPurger interface {
	ListDeactivatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]int64, error)
	DeleteWithMessages(ctx context.Context, tx pgx.Tx, matchID int64) error
}

// Job purges matches that were deactivated longer ago than the retention
// window, together with their conversations. Each match goes in its own
// transaction so a failure mid-batch leaves no half-deleted conversation.
type Job struct {
	matchRepo matchPurger
	retention time.Duration
	runTx     func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	now       func() time.Time
	logger    *zap.Logger
}

func NewMatchPurgeJob(pool *pgxpool.Pool, matchRepo *pgrepo.MatchRepo, retention time.Duration, logger *zap.Logger) *Job {
	if retention <= 0 {
		retention = 90 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		matchRepo: matchRepo,
		retention: retention,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		},
		now:    time.Now,
		logger: logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.matchRepo == nil {
		return nil
	}

	cutoff := j.now().UTC().Add(-j.retention)

	purged := 0
	for {
		ids, err := j.matchRepo.ListDeactivatedBefore(ctx, cutoff, purgeBatchSize)
		if err != nil {
			return fmt.Errorf("list stale matches: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			if err := j.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
				return j.matchRepo.DeleteWithMessages(txCtx, tx, id)
			}); err != nil {
				return fmt.Errorf("purge match %d: %w", id, err)
			}
			purged++
		}

		if len(ids) < purgeBatchSize {
			break
		}
	}

	if purged > 0 {
		j.logger.Info("stale match purge completed", zap.Int("purged", purged))
	}
	return nil
}

// RunLoop executes the purge on a fixed interval until ctx is done. The
// first pass runs immediately.
func (j *Job) RunLoop(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	if err := j.Run(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				return err
			}
		}
	}
}
