package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	authsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/auth"
)

const (
	sessionPrefix        = "sessions:"
	refreshPrefix        = "refresh:"
	sessionRefreshPrefix = "session_refresh:"
	userSessionsPrefix   = "user_sessions:"
)

// sessionHash is the redis shape of one session. The sid lives in the key,
// not in the hash, except for the refresh lookup which needs it to get back
// to the session.
type sessionHash struct {
	UserID    int64  `redis:"user_id"`
	SID       string `redis:"sid,omitempty"`
	ExpiresAt int64  `redis:"expires_at"`
}

func (h sessionHash) record() authsvc.SessionRecord {
	return authsvc.SessionRecord{
		SID:       h.SID,
		UserID:    h.UserID,
		ExpiresAt: time.Unix(h.ExpiresAt, 0).UTC(),
	}
}

type SessionRepo struct {
	client *goredis.Client
}

func NewSessionRepo(client *goredis.Client) *SessionRepo {
	return &SessionRepo{client: client}
}

func (r *SessionRepo) Create(ctx context.Context, session authsvc.SessionRecord, refreshToken string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(session.SID) == "" || strings.TrimSpace(refreshToken) == "" || session.UserID <= 0 {
		return authsvc.ErrInvalidInput
	}

	if err := r.writeSession(ctx, session, refreshToken, ""); err != nil {
		return fmt.Errorf("create redis session: %w", err)
	}
	return nil
}

// writeSession stores the session hash, the refresh lookup and the per-user
// index in one pipeline. staleRefresh, when set, is dropped in the same
// round trip so rotation never leaves two live refresh tokens.
func (r *SessionRepo) writeSession(ctx context.Context, session authsvc.SessionRecord, refreshToken, staleRefresh string) error {
	ttl := ttlFor(session.ExpiresAt)

	pipe := r.client.TxPipeline()
	if staleRefresh != "" {
		pipe.Del(ctx, refreshKey(staleRefresh))
	}
	pipe.HSet(ctx, sessionKey(session.SID), sessionHash{
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt.Unix(),
	})
	pipe.Expire(ctx, sessionKey(session.SID), ttl)
	pipe.HSet(ctx, refreshKey(refreshToken), sessionHash{
		UserID:    session.UserID,
		SID:       session.SID,
		ExpiresAt: session.ExpiresAt.Unix(),
	})
	pipe.Expire(ctx, refreshKey(refreshToken), ttl)
	pipe.Set(ctx, sessionRefreshKey(session.SID), refreshToken, ttl)
	pipe.SAdd(ctx, userSessionsKey(session.UserID), session.SID)
	pipe.Expire(ctx, userSessionsKey(session.UserID), ttl)

	_, err := pipe.Exec(ctx)
	return err
}

func (r *SessionRepo) GetSession(ctx context.Context, sid string) (authsvc.SessionRecord, error) {
	if r.client == nil {
		return authsvc.SessionRecord{}, fmt.Errorf("redis client is nil")
	}

	hash, err := r.loadHash(ctx, sessionKey(sid), authsvc.ErrSessionNotFound)
	if err != nil {
		return authsvc.SessionRecord{}, err
	}

	session := hash.record()
	session.SID = sid
	return session, nil
}

func (r *SessionRepo) GetByRefreshToken(ctx context.Context, refreshToken string) (authsvc.SessionRecord, error) {
	if r.client == nil {
		return authsvc.SessionRecord{}, fmt.Errorf("redis client is nil")
	}

	hash, err := r.loadHash(ctx, refreshKey(refreshToken), authsvc.ErrRefreshNotFound)
	if err != nil {
		return authsvc.SessionRecord{}, err
	}
	if strings.TrimSpace(hash.SID) == "" {
		return authsvc.SessionRecord{}, authsvc.ErrRefreshNotFound
	}

	return hash.record(), nil
}

func (r *SessionRepo) loadHash(ctx context.Context, key string, missing error) (sessionHash, error) {
	cmd := r.client.HGetAll(ctx, key)
	values, err := cmd.Result()
	if err != nil {
		return sessionHash{}, fmt.Errorf("get session hash: %w", err)
	}
	if len(values) == 0 {
		return sessionHash{}, missing
	}

	var hash sessionHash
	if err := cmd.Scan(&hash); err != nil {
		return sessionHash{}, authsvc.ErrUnauthorized
	}
	if hash.UserID <= 0 || hash.ExpiresAt == 0 {
		return sessionHash{}, authsvc.ErrUnauthorized
	}
	return hash, nil
}

func (r *SessionRepo) RotateRefresh(ctx context.Context, sid, oldRefreshToken, newRefreshToken string, expiresAt time.Time) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	session, err := r.GetByRefreshToken(ctx, oldRefreshToken)
	if err != nil {
		return err
	}
	if sid != "" && sid != session.SID {
		return authsvc.ErrRefreshNotFound
	}

	session.ExpiresAt = expiresAt
	if err := r.writeSession(ctx, session, newRefreshToken, oldRefreshToken); err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	return nil
}

func (r *SessionRepo) DeleteSession(ctx context.Context, sid string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(sid) == "" {
		return nil
	}

	hash, err := r.loadHash(ctx, sessionKey(sid), authsvc.ErrSessionNotFound)
	if err != nil && err != authsvc.ErrSessionNotFound && err != authsvc.ErrUnauthorized {
		return fmt.Errorf("load session for delete: %w", err)
	}

	refreshToken, err := r.client.Get(ctx, sessionRefreshKey(sid)).Result()
	if err != nil && err != goredis.Nil {
		return fmt.Errorf("load session refresh pointer: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(sid))
	pipe.Del(ctx, sessionRefreshKey(sid))
	if refreshToken != "" {
		pipe.Del(ctx, refreshKey(refreshToken))
	}
	if hash.UserID > 0 {
		pipe.SRem(ctx, userSessionsKey(hash.UserID), sid)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if userID <= 0 {
		return authsvc.ErrInvalidInput
	}

	sids, err := r.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}

	for _, sid := range sids {
		if err := r.DeleteSession(ctx, sid); err != nil {
			return err
		}
	}

	if err := r.client.Del(ctx, userSessionsKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete user sessions key: %w", err)
	}

	return nil
}

func ttlFor(expiresAt time.Time) time.Duration {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}

func sessionKey(sid string) string {
	return sessionPrefix + sid
}

func refreshKey(token string) string {
	return refreshPrefix + token
}

func sessionRefreshKey(sid string) string {
	return sessionRefreshPrefix + sid
}

func userSessionsKey(userID int64) string {
	return userSessionsPrefix + strconv.FormatInt(userID, 10)
}
