package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type staleMatch struct {
	id            int64
	deactivatedAt time.Time
}

type fakeMatchPurger struct {
	matches      []staleMatch
	messages     map[int64]int
	purgedOrder  []int64
	messagesGone []int64
}

func (f *fakeMatchPurger) ListDeactivatedBefore(_ context.Context, cutoff time.Time, limit int) ([]int64, error) {
	ids := make([]int64, 0, limit)
	for _, m := range f.matches {
		if m.deactivatedAt.Before(cutoff) {
			ids = append(ids, m.id)
			if len(ids) == limit {
				break
			}
		}
	}
	return ids, nil
}

func (f *fakeMatchPurger) DeleteWithMessages(_ context.Context, _ pgx.Tx, matchID int64) error {
	f.purgedOrder = append(f.purgedOrder, matchID)
	if f.messages[matchID] > 0 {
		f.messagesGone = append(f.messagesGone, matchID)
		delete(f.messages, matchID)
	}
	remaining := f.matches[:0]
	for _, m := range f.matches {
		if m.id != matchID {
			remaining = append(remaining, m)
		}
	}
	f.matches = remaining
	return nil
}

func TestRunPurgesOnlyMatchesPastRetention(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	purger := &fakeMatchPurger{
		matches: []staleMatch{
			{id: 1, deactivatedAt: now.Add(-91 * 24 * time.Hour)},
			{id: 2, deactivatedAt: now.Add(-89 * 24 * time.Hour)},
			{id: 3, deactivatedAt: now.Add(-200 * 24 * time.Hour)},
		},
		messages: map[int64]int{1: 4, 3: 2},
	}

	job := &Job{
		matchRepo: purger,
		retention: 90 * 24 * time.Hour,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return fn(ctx, nil)
		},
		now:    func() time.Time { return now },
		logger: zap.NewNop(),
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run purge job: %v", err)
	}

	if len(purger.purgedOrder) != 2 {
		t.Fatalf("expected two purged matches, got %v", purger.purgedOrder)
	}
	for _, id := range purger.purgedOrder {
		if id == 2 {
			t.Fatalf("match inside retention window must survive")
		}
	}
	if len(purger.messagesGone) != 2 {
		t.Fatalf("expected messages removed with their matches, got %v", purger.messagesGone)
	}
	if len(purger.matches) != 1 || purger.matches[0].id != 2 {
		t.Fatalf("unexpected surviving matches: %+v", purger.matches)
	}
}
