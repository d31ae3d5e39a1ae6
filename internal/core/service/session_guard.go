package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/api/metrics"
	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/domain"
	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/ports"
)

// tokenBytes is the entropy of a session token. 32 bytes of crypto/rand,
// well above the 128-bit floor for unguessable tokens.
const tokenBytes = 32

// SessionGuard issues, validates, and revokes opaque session tokens.
// A token is the only client-held credential; everything else lives
// server-side in the SessionStore.
type SessionGuard struct {
	store ports.SessionStore
	users ports.UserRepository
	ttl   time.Duration
}

func NewSessionGuard(store ports.SessionStore, users ports.UserRepository, ttl time.Duration) *SessionGuard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionGuard{store: store, users: users, ttl: ttl}
}

// Create issues a fresh token for the user. Every login gets a new token;
// tokens are never reused or derived from user data.
func (g *SessionGuard) Create(ctx context.Context, user *domain.User) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	now := time.Now().UTC()
	session := domain.Session{
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(g.ttl),
	}

	if err := g.store.Save(ctx, token, session, g.ttl); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	metrics.SessionsActive.Inc()
	return token, nil
}

// Validate resolves a token to its user. A session whose user record has
// disappeared is destroyed and reported invalid, so a valid session always
// references an existing user.
func (g *SessionGuard) Validate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		metrics.SessionValidationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrSessionInvalid
	}

	session, err := g.store.Find(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionInvalid) {
			metrics.SessionValidationsTotal.WithLabelValues("invalid").Inc()
		}
		return nil, err
	}
	if session.Expired(time.Now().UTC()) {
		g.evict(ctx, token)
		metrics.SessionValidationsTotal.WithLabelValues("expired").Inc()
		return nil, domain.ErrSessionInvalid
	}

	user, err := g.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			g.evict(ctx, token)
			metrics.SessionValidationsTotal.WithLabelValues("invalid").Inc()
			return nil, domain.ErrSessionInvalid
		}
		return nil, err
	}

	metrics.SessionValidationsTotal.WithLabelValues("valid").Inc()
	return user, nil
}

// Destroy revokes a token. Revoking an unknown or already-revoked token is
// a no-op.
func (g *SessionGuard) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	removed, err := g.store.Delete(ctx, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if removed {
		metrics.SessionsActive.Dec()
	}
	return nil
}

// evict removes a session found unusable during validation, keeping the
// active-sessions gauge in step with the store.
func (g *SessionGuard) evict(ctx context.Context, token string) {
	if removed, err := g.store.Delete(ctx, token); err == nil && removed {
		metrics.SessionsActive.Dec()
	}
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
