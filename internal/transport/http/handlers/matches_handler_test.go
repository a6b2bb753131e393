package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	pgrepo "github.com/mr0kk/hackYeah2025-guidy/internal/repo/postgres"
	authsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/auth"
	matchessvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/matches"
	"github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/dto"
)

type matchStoreStub struct {
	match     pgrepo.MatchRecord
	summaries []pgrepo.MatchSummaryRecord
}

func (s *matchStoreStub) GetByID(context.Context, int64) (pgrepo.MatchRecord, error) {
	return s.match, nil
}

func (s *matchStoreStub) ListActiveForUser(context.Context, int64, int) ([]pgrepo.MatchSummaryRecord, error) {
	return s.summaries, nil
}

func (s *matchStoreStub) Deactivate(context.Context, int64) error {
	return nil
}

func authedRequest(method, target string, userID int64) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
		UserID: userID,
		SID:    "sid-test",
	}))
}

func TestMatchesListResponse(t *testing.T) {
	store := &matchStoreStub{
		summaries: []pgrepo.MatchSummaryRecord{
			{MatchID: 4, OtherUserID: 8, Name: "Ada", Location: "Krakow", CreatedAt: time.Now().UTC()},
		},
	}
	handler := NewMatchesHandler(matchessvc.NewService(store))

	rr := httptest.NewRecorder()
	handler.List(rr, authedRequest(http.MethodGet, "/matches", 1))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var payload dto.MatchesResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Items) != 1 {
		t.Fatalf("expected one match, got %d", len(payload.Items))
	}
	if payload.Items[0].OtherUserID != 8 || payload.Items[0].Name != "Ada" {
		t.Fatalf("unexpected match item: %+v", payload.Items[0])
	}
}

func TestMatchesListRequiresAuth(t *testing.T) {
	handler := NewMatchesHandler(matchessvc.NewService(&matchStoreStub{}))

	rr := httptest.NewRecorder()
	handler.List(rr, httptest.NewRequest(http.MethodGet, "/matches", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestMatchGetHidesForeignMatch(t *testing.T) {
	store := &matchStoreStub{match: pgrepo.MatchRecord{ID: 4, UserAID: 1, UserBID: 2, IsActive: true}}
	handler := NewMatchesHandler(matchessvc.NewService(store))

	req := authedRequest(http.MethodGet, "/matches/4", 3)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", "4")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.Get(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status for outsider: got %d want %d", rr.Code, http.StatusNotFound)
	}
}
