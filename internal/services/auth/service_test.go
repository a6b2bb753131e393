package auth

import (
	"context"
	"testing"
	"time"
)

type sessionStoreStub struct {
	sessions map[string]SessionRecord
	refresh  map[string]string
}

func newSessionStoreStub() *sessionStoreStub {
	return &sessionStoreStub{
		sessions: map[string]SessionRecord{},
		refresh:  map[string]string{},
	}
}

func (s *sessionStoreStub) Create(_ context.Context, session SessionRecord, refreshToken string) error {
	s.sessions[session.SID] = session
	s.refresh[refreshToken] = session.SID
	return nil
}

func (s *sessionStoreStub) GetSession(_ context.Context, sid string) (SessionRecord, error) {
	session, ok := s.sessions[sid]
	if !ok {
		return SessionRecord{}, ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionStoreStub) GetByRefreshToken(_ context.Context, refreshToken string) (SessionRecord, error) {
	sid, ok := s.refresh[refreshToken]
	if !ok {
		return SessionRecord{}, ErrRefreshNotFound
	}
	return s.sessions[sid], nil
}

func (s *sessionStoreStub) RotateRefresh(_ context.Context, sid, oldRefreshToken, newRefreshToken string, expiresAt time.Time) error {
	if s.refresh[oldRefreshToken] != sid {
		return ErrRefreshNotFound
	}
	delete(s.refresh, oldRefreshToken)
	s.refresh[newRefreshToken] = sid
	session := s.sessions[sid]
	session.ExpiresAt = expiresAt
	s.sessions[sid] = session
	return nil
}

func (s *sessionStoreStub) DeleteSession(_ context.Context, sid string) error {
	delete(s.sessions, sid)
	for token, owner := range s.refresh {
		if owner == sid {
			delete(s.refresh, token)
		}
	}
	return nil
}

func (s *sessionStoreStub) DeleteAllForUser(_ context.Context, userID int64) error {
	for sid, session := range s.sessions {
		if session.UserID == userID {
			_ = s.DeleteSession(context.Background(), sid)
		}
	}
	return nil
}

func newTestAuthService(store SessionStore) *Service {
	return NewService(NewJWTManager("test-secret", 15*time.Minute), store, 48*time.Hour)
}

func TestIssueAndAuthenticate(t *testing.T) {
	store := newSessionStoreStub()
	svc := newTestAuthService(store)
	ctx := context.Background()

	result, err := svc.IssueSession(ctx, 7)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", result)
	}

	identity, err := svc.Authenticate(ctx, result.AccessToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if identity.UserID != 7 {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestAuthenticateRejectsRevokedSession(t *testing.T) {
	store := newSessionStoreStub()
	svc := newTestAuthService(store)
	ctx := context.Background()

	result, err := svc.IssueSession(ctx, 7)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	identity, err := svc.Authenticate(ctx, result.AccessToken)
	if err != nil {
		t.Fatalf("authenticate before logout: %v", err)
	}
	if err := svc.Logout(ctx, identity.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.Authenticate(ctx, result.AccessToken); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	store := newSessionStoreStub()
	svc := newTestAuthService(store)
	ctx := context.Background()

	issued, err := svc.IssueSession(ctx, 7)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, issued.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == issued.RefreshToken {
		t.Fatalf("refresh token must rotate")
	}

	// The old refresh token is spent.
	if _, err := svc.Refresh(ctx, issued.RefreshToken); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for reused refresh token, got %v", err)
	}

	// The new one still works.
	if _, err := svc.Refresh(ctx, refreshed.RefreshToken); err != nil {
		t.Fatalf("refresh with rotated token: %v", err)
	}
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	store := newSessionStoreStub()
	svc := newTestAuthService(store)
	ctx := context.Background()

	first, err := svc.IssueSession(ctx, 7)
	if err != nil {
		t.Fatalf("issue first session: %v", err)
	}
	second, err := svc.IssueSession(ctx, 7)
	if err != nil {
		t.Fatalf("issue second session: %v", err)
	}

	if err := svc.LogoutAll(ctx, 7); err != nil {
		t.Fatalf("logout all: %v", err)
	}

	for _, token := range []string{first.AccessToken, second.AccessToken} {
		if _, err := svc.Authenticate(ctx, token); err != ErrUnauthorized {
			t.Fatalf("expected ErrUnauthorized after logout all, got %v", err)
		}
	}
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	svc := newTestAuthService(newSessionStoreStub())

	if _, err := svc.Authenticate(context.Background(), "not-a-jwt"); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
