package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/api/metrics"
	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/domain"
	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/ports"
)

// Authenticator verifies credentials. Callers learn only "match" or
// "no match": wrong password and unknown email are indistinguishable, and
// the stored hash never leaves this package.
type Authenticator struct {
	repo ports.UserRepository
	// dummyHash is a throwaway hash generated at the same cost as the real
	// password hashes. When a login names an unknown email we still run one
	// comparison against it; CompareHashAndPassword takes time proportional
	// to the cost embedded in the hash, so the costs must match or the two
	// failure paths diverge and timing enumerates accounts.
	dummyHash []byte
}

// NewAuthenticator creates an Authenticator. bcryptCost must be the same
// cost the CredentialService hashes with; out-of-range values fall back to
// the library default, mirroring NewCredentialService.
func NewAuthenticator(repo ports.UserRepository, bcryptCost int) *Authenticator {
	dummy, err := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), normalizeBcryptCost(bcryptCost))
	if err != nil {
		panic(err) // unreachable: the cost is clamped to a valid range
	}
	return &Authenticator{repo: repo, dummyHash: dummy}
}

func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := a.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return user, nil
}
