package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/domain"
)

type stubAuditRepo struct {
	inserted []*domain.AuthEvent
	err      error
}

func (r *stubAuditRepo) Insert(_ context.Context, event *domain.AuthEvent) error {
	if r.err != nil {
		return r.err
	}
	r.inserted = append(r.inserted, event)
	return nil
}

func TestAuditService_FillsIdentityAndTimestamp(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo)

	err := svc.Process(context.Background(), domain.AuthEvent{
		Type:    domain.EventLoginSucceeded,
		Subject: "ada@example.com",
		UserID:  "user_1",
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.inserted))
	}
	got := repo.inserted[0]
	if got.ID == "" {
		t.Fatalf("expected generated event ID")
	}
	if got.At.IsZero() || got.At.After(time.Now().UTC()) {
		t.Fatalf("unexpected event timestamp: %v", got.At)
	}
	if got.Subject != "ada@example.com" || got.Type != domain.EventLoginSucceeded {
		t.Fatalf("event mangled: %+v", got)
	}
}

func TestAuditService_PreservesCallerFields(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err := svc.Process(context.Background(), domain.AuthEvent{
		ID:      "evt_1",
		Type:    domain.EventLoggedOut,
		Subject: "ada@example.com",
		At:      at,
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	got := repo.inserted[0]
	if got.ID != "evt_1" || !got.At.Equal(at) {
		t.Fatalf("caller-supplied fields overwritten: %+v", got)
	}
}

func TestAuditService_InsertFailure(t *testing.T) {
	repoErr := errors.New("mongo down")
	svc := NewAuditService(&stubAuditRepo{err: repoErr})

	err := svc.Process(context.Background(), domain.AuthEvent{Type: domain.EventLoginFailed, Subject: "x@example.com"})
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}
