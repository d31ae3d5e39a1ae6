package ports

import (
	"context"

	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/domain"
)

// AuditRecorder accepts auth lifecycle events for asynchronous recording.
// Record must not block the request path and must never fail it.
type AuditRecorder interface {
	Record(event domain.AuthEvent)
}

// AuditService persists a single audit event.
type AuditService interface {
	Process(ctx context.Context, event domain.AuthEvent) error
}

// AuditRepository defines the interface for audit event persistence.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}
