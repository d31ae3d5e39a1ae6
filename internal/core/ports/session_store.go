package ports

import (
	"context"
	"time"

	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/domain"
)

// SessionStore persists the token → session binding.
// Find returns domain.ErrSessionInvalid for unknown or expired tokens.
// Delete is idempotent: deleting an absent token is not an error; the bool
// reports whether a binding was actually removed.
type SessionStore interface {
	Save(ctx context.Context, token string, session domain.Session, ttl time.Duration) error
	Find(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) (bool, error)
}
