package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

const sessionKeyPrefix = "session:"

// SessionService maps opaque session ids to access tokens. Redis is the
// system of record; when no Redis client is configured the service degrades
// to an in-process cache that does not survive restarts.
type SessionService struct {
	rdb    *redis.Client
	ttl    time.Duration
	secret string

	mu    sync.Mutex
	local map[string]localSession
}

type localSession struct {
	token     string
	expiresAt time.Time
}

func NewSessionService(rdb *redis.Client, ttl time.Duration, secret string) *SessionService {
	return &SessionService{
		rdb:    rdb,
		ttl:    ttl,
		secret: secret,
		local:  make(map[string]localSession),
	}
}

// TTL reports the session lifetime, used for the cookie max-age.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// CookieValue renders a session id for transport in the cookie. With a
// secret configured the id is signed so a forged or tampered cookie is
// rejected without a store lookup.
func (s *SessionService) CookieValue(id string) string {
	if s.secret == "" {
		return id
	}
	return id + "." + s.sign(id)
}

// ParseCookie verifies a cookie value and returns the session id.
func (s *SessionService) ParseCookie(value string) (string, error) {
	if s.secret == "" {
		return value, nil
	}
	id, sig, ok := strings.Cut(value, ".")
	if !ok || !hmac.Equal([]byte(sig), []byte(s.sign(id))) {
		return "", ErrSessionNotFound
	}
	return id, nil
}

func (s *SessionService) sign(id string) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Create stores the access token under a fresh session id and returns the id.
func (s *SessionService) Create(ctx context.Context, accessToken string) (string, error) {
	id := uuid.New().String()
	encoded := base64.StdEncoding.EncodeToString([]byte(accessToken))

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, sessionKeyPrefix+id, encoded, s.ttl).Err(); err != nil {
			return "", err
		}
		return id, nil
	}

	s.mu.Lock()
	s.local[id] = localSession{token: encoded, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return id, nil
}

// Get resolves a session id back to the access token.
func (s *SessionService) Get(ctx context.Context, id string) (string, error) {
	var encoded string
	if s.rdb != nil {
		val, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Result()
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		if err != nil {
			return "", err
		}
		encoded = val
	} else {
		s.mu.Lock()
		sess, ok := s.local[id]
		s.mu.Unlock()
		if !ok || time.Now().After(sess.expiresAt) {
			return "", ErrSessionNotFound
		}
		encoded = sess.token
	}

	token, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrSessionNotFound
	}
	return string(token), nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if s.rdb != nil {
		return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
	}
	s.mu.Lock()
	delete(s.local, id)
	s.mu.Unlock()
	return nil
}
