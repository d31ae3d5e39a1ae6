package ports

import (
	"context"

	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/domain"
)

// UserRepository defines the interface for user persistence.
// Create must enforce email uniqueness atomically (the backing store's
// unique index arbitrates concurrent registrations) and return
// domain.ErrEmailTaken on a duplicate.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
