package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mr0kk/hackYeah2025-guidy/internal/domain/enums"
	pgrepo "github.com/mr0kk/hackYeah2025-guidy/internal/repo/postgres"
	authsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/auth"
	swipesvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/swipes"
	httperrors "github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/errors"
)

type swipeStoreStub struct{}

func (s *swipeStoreStub) LockPair(context.Context, pgx.Tx, int64, int64) error {
	return nil
}

func (s *swipeStoreStub) Create(_ context.Context, _ pgx.Tx, swiperID, swipedID int64, direction enums.SwipeDirection, now time.Time) (pgrepo.SwipeRecord, error) {
	return pgrepo.SwipeRecord{ID: 1, SwiperID: swiperID, SwipedID: swipedID, Direction: string(direction), CreatedAt: now}, nil
}

func (s *swipeStoreStub) ReverseLikeExists(context.Context, pgx.Tx, int64, int64) (bool, error) {
	return false, nil
}

type swipeMatchStoreStub struct{}

func (s *swipeMatchStoreStub) CreateIfAbsent(context.Context, pgx.Tx, int64, int64, time.Time) (pgrepo.MatchRecord, bool, error) {
	return pgrepo.MatchRecord{}, false, nil
}

type denyAllLimiter struct {
	retryAfter int64
}

func (l *denyAllLimiter) AllowSwipe(context.Context, int64) (int64, bool, error) {
	return l.retryAfter, false, nil
}

func newSwipeHandlerWithLimiter(limiter swipesvc.RateLimiter) *SwipeHandler {
	service := swipesvc.NewService(swipesvc.Dependencies{
		SwipeStore:  &swipeStoreStub{},
		MatchStore:  &swipeMatchStoreStub{},
		RateLimiter: limiter,
	}, swipesvc.Config{})
	return NewSwipeHandler(service)
}

func swipeRequest(userID int64, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/swipes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
		UserID: userID,
		SID:    "sid-test",
	}))
}

func TestSwipeSelfRejected(t *testing.T) {
	handler := newSwipeHandlerWithLimiter(nil)

	rr := httptest.NewRecorder()
	handler.Handle(rr, swipeRequest(7, `{"target_id":7,"direction":"like"}`))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}

	var payload httperrors.APIError
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "SELF_SWIPE" {
		t.Fatalf("unexpected error code: %s", payload.Code)
	}
}

func TestSwipeUnknownDirectionRejected(t *testing.T) {
	handler := newSwipeHandlerWithLimiter(nil)

	rr := httptest.NewRecorder()
	handler.Handle(rr, swipeRequest(7, `{"target_id":9,"direction":"maybe"}`))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}

	var payload httperrors.APIError
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "UNSUPPORTED_DIRECTION" {
		t.Fatalf("unexpected error code: %s", payload.Code)
	}
}

func TestSwipeRateLimitedReturnsRetryAfter(t *testing.T) {
	handler := newSwipeHandlerWithLimiter(&denyAllLimiter{retryAfter: 13})

	rr := httptest.NewRecorder()
	handler.Handle(rr, swipeRequest(7, `{"target_id":9,"direction":"like"}`))

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusTooManyRequests)
	}

	var payload httperrors.RateLimitError
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "TOO_FAST" || payload.RetryAfterSec != 13 {
		t.Fatalf("unexpected rate limit payload: %+v", payload)
	}
}
