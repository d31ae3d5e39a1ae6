package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/api/metrics"
	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/domain"
	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/ports"
)

// AuditService persists auth lifecycle events. It runs on the dispatcher's
// worker goroutines, never on the request path.
type AuditService struct {
	repo ports.AuditRepository
}

func NewAuditService(repo ports.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

func (s *AuditService) Process(ctx context.Context, event domain.AuthEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	if err := s.repo.Insert(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues(string(event.Type), "error").Inc()
		return fmt.Errorf("insert audit event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues(string(event.Type), "ok").Inc()
	return nil
}
