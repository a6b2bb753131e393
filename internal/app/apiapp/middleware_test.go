package apiapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	redrepo "github.com/mr0kk/hackYeah2025-guidy/internal/repo/redis"
	authsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/auth"
)

func newTestAuthService(t *testing.T) (*authsvc.Service, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := redrepo.NewClient(mr.Addr(), "", 0)
	sessions := redrepo.NewSessionRepo(client)
	jwtManager := authsvc.NewJWTManager("test-secret", 15*time.Minute)

	cleanup := func() {
		_ = client.Close()
		mr.Close()
	}
	return authsvc.NewService(jwtManager, sessions, 48*time.Hour), cleanup
}

func TestAuthMiddlewarePassesIdentity(t *testing.T) {
	authService, cleanup := newTestAuthService(t)
	defer cleanup()

	result, err := authService.IssueSession(context.Background(), 42)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	mw := AuthMiddleware(authService, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+result.AccessToken)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authsvc.IdentityFromContext(r.Context())
		if !ok {
			t.Fatalf("identity missing in context")
		}
		if identity.UserID != 42 {
			t.Fatalf("unexpected user id: %d", identity.UserID)
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	authService, cleanup := newTestAuthService(t)
	defer cleanup()

	mw := AuthMiddleware(authService, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("handler must not be called without a token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsRevokedSession(t *testing.T) {
	authService, cleanup := newTestAuthService(t)
	defer cleanup()

	result, err := authService.IssueSession(context.Background(), 42)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	if err := authService.LogoutAll(context.Background(), 42); err != nil {
		t.Fatalf("logout all: %v", err)
	}

	mw := AuthMiddleware(authService, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+result.AccessToken)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("handler must not be called with a revoked session")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		token, ok := extractBearerToken(tc.header)
		if ok != tc.ok || token != tc.token {
			t.Fatalf("header %q: got (%q, %v) want (%q, %v)", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}
