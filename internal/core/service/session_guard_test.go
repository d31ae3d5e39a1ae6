package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/crypto/bcrypt"

	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/api/metrics"
	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/domain"
)

// stubSessionStore is an in-memory SessionStore. TTL is recorded but expiry
// is driven by the session's own ExpiresAt, which the guard checks.
type stubSessionStore struct {
	sessions map[string]domain.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]domain.Session)}
}

func (s *stubSessionStore) Save(_ context.Context, token string, session domain.Session, _ time.Duration) error {
	s.sessions[token] = session
	return nil
}

func (s *stubSessionStore) Find(_ context.Context, token string) (*domain.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionInvalid
	}
	return &session, nil
}

func (s *stubSessionStore) Delete(_ context.Context, token string) (bool, error) {
	if _, ok := s.sessions[token]; !ok {
		return false, nil
	}
	delete(s.sessions, token)
	return true, nil
}

func registeredUser(t *testing.T, repo *stubUserRepo) *domain.User {
	t.Helper()
	creds := NewCredentialService(repo, bcrypt.MinCost)
	user, err := creds.Register(context.Background(), "Ada", "ada@example.com", "secret123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return user
}

func TestSessionGuard_CreateThenValidate(t *testing.T) {
	repo := newStubUserRepo()
	store := newStubSessionStore()
	guard := NewSessionGuard(store, repo, time.Hour)
	user := registeredUser(t, repo)

	token, err := guard.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(token) < 32 {
		t.Fatalf("token too short to carry 128 bits of entropy: %q", token)
	}

	got, err := guard.Validate(context.Background(), token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, got.ID)
	}
}

func TestSessionGuard_TokensAreUnique(t *testing.T) {
	repo := newStubUserRepo()
	store := newStubSessionStore()
	guard := NewSessionGuard(store, repo, time.Hour)
	user := registeredUser(t, repo)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := guard.Create(context.Background(), user)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if seen[token] {
			t.Fatalf("token issued twice: %q", token)
		}
		seen[token] = true
	}
}

func TestSessionGuard_DestroyThenValidate(t *testing.T) {
	repo := newStubUserRepo()
	store := newStubSessionStore()
	guard := NewSessionGuard(store, repo, time.Hour)
	user := registeredUser(t, repo)

	token, err := guard.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := guard.Destroy(context.Background(), token); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}
	if _, err := guard.Validate(context.Background(), token); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid after destroy, got %v", err)
	}
}

func TestSessionGuard_DestroyIsIdempotent(t *testing.T) {
	repo := newStubUserRepo()
	store := newStubSessionStore()
	guard := NewSessionGuard(store, repo, time.Hour)
	user := registeredUser(t, repo)

	token, err := guard.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := guard.Destroy(context.Background(), token); err != nil {
			t.Fatalf("destroy #%d failed: %v", i+1, err)
		}
	}
	if err := guard.Destroy(context.Background(), "never-issued"); err != nil {
		t.Fatalf("destroying unknown token failed: %v", err)
	}
	if err := guard.Destroy(context.Background(), ""); err != nil {
		t.Fatalf("destroying empty token failed: %v", err)
	}
}

func TestSessionGuard_ExpiredSession(t *testing.T) {
	repo := newStubUserRepo()
	store := newStubSessionStore()
	guard := NewSessionGuard(store, repo, time.Hour)
	user := registeredUser(t, repo)

	// The backing store would normally reap the key via TTL; simulate a
	// session that outlived its ExpiresAt.
	store.sessions["stale"] = domain.Session{
		UserID:    user.ID,
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}

	if _, err := guard.Validate(context.Background(), "stale"); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid for expired session, got %v", err)
	}
	if _, ok := store.sessions["stale"]; ok {
		t.Fatalf("expired session was not cleaned up")
	}
}

func TestSessionGuard_DanglingUserIsInvalid(t *testing.T) {
	repo := newStubUserRepo()
	store := newStubSessionStore()
	guard := NewSessionGuard(store, repo, time.Hour)
	user := registeredUser(t, repo)

	token, err := guard.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	repo.delete(user.ID)

	if _, err := guard.Validate(context.Background(), token); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid for dangling session, got %v", err)
	}
}

func TestSessionGuard_CleanupDecrementsActiveGauge(t *testing.T) {
	repo := newStubUserRepo()
	store := newStubSessionStore()
	guard := NewSessionGuard(store, repo, time.Hour)
	user := registeredUser(t, repo)

	baseline := testutil.ToFloat64(metrics.SessionsActive)

	// An expired session evicted during validation must release its slot
	// in the gauge, same as an explicit Destroy.
	staleToken, err := guard.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	stale := store.sessions[staleToken]
	stale.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	store.sessions[staleToken] = stale

	if _, err := guard.Validate(context.Background(), staleToken); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid for expired session, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.SessionsActive); got != baseline {
		t.Fatalf("gauge after expired-session eviction = %v, want %v", got, baseline)
	}

	// Same for a session whose user record disappeared.
	danglingToken, err := guard.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	repo.delete(user.ID)

	if _, err := guard.Validate(context.Background(), danglingToken); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid for dangling session, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.SessionsActive); got != baseline {
		t.Fatalf("gauge after dangling-session eviction = %v, want %v", got, baseline)
	}
}

func TestSessionGuard_EmptyToken(t *testing.T) {
	repo := newStubUserRepo()
	guard := NewSessionGuard(newStubSessionStore(), repo, time.Hour)

	if _, err := guard.Validate(context.Background(), ""); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}
