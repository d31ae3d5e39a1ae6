package ports

import (
	"context"

	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/domain"
)

// CredentialService handles account creation and lookup.
type CredentialService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Authenticator verifies an email/password pair. It returns
// domain.ErrInvalidCredentials for both unknown emails and wrong passwords,
// with no observable difference between the two cases.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}
