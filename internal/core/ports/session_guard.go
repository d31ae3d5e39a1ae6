package ports

import (
	"context"

	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/domain"
)

// SessionGuard owns the session lifecycle: issue on login, resolve on each
// request, revoke on logout.
type SessionGuard interface {
	// Create issues a fresh opaque token bound to the user.
	Create(ctx context.Context, user *domain.User) (string, error)
	// Validate resolves a token to its user. Unknown, expired, and revoked
	// tokens — and tokens whose user no longer exists — all yield
	// domain.ErrSessionInvalid.
	Validate(ctx context.Context, token string) (*domain.User, error)
	// Destroy revokes a token. Idempotent.
	Destroy(ctx context.Context, token string) error
}
