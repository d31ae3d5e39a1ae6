package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/api/metrics"
	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/domain"
	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/ports"
)

// CredentialService implements account creation and lookup. The plaintext
// password exists only on the stack of Register; it is never stored or logged.
type CredentialService struct {
	repo       ports.UserRepository
	bcryptCost int
}

func NewCredentialService(repo ports.UserRepository, bcryptCost int) *CredentialService {
	return &CredentialService{repo: repo, bcryptCost: normalizeBcryptCost(bcryptCost)}
}

// normalizeBcryptCost clamps the configured cost to the library's valid
// range. The CredentialService and the Authenticator must agree on it: the
// authenticator's dummy hash is generated at this cost so that failed logins
// cost one comparison at the same cost regardless of whether the email exists.
func normalizeBcryptCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}

func (s *CredentialService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	start := time.Now()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	return created, nil
}

func (s *CredentialService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
}
