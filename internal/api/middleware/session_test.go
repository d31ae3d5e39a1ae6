package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/domain"
)

const cookieName = "session_token"

type stubGuard struct {
	validateFn func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubGuard) Create(context.Context, *domain.User) (string, error) { return "", nil }
func (s *stubGuard) Destroy(context.Context, string) error                { return nil }

func (s *stubGuard) Validate(ctx context.Context, token string) (*domain.User, error) {
	return s.validateFn(ctx, token)
}

func TestRequireSession_ValidCookie(t *testing.T) {
	e := echo.New()
	guard := &stubGuard{
		validateFn: func(_ context.Context, token string) (*domain.User, error) {
			if token != "token123" {
				t.Fatalf("unexpected token: %q", token)
			}
			return &domain.User{ID: "user_1", Name: "Ada"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "token123"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := RequireSession(guard, cookieName)
	handler := mw(func(c echo.Context) error {
		called = true
		user, _ := c.Get("user").(*domain.User)
		if user == nil || user.Name != "Ada" {
			t.Fatalf("user not injected into context")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestRequireSession_BearerToken(t *testing.T) {
	e := echo.New()
	guard := &stubGuard{
		validateFn: func(_ context.Context, token string) (*domain.User, error) {
			if token != "token123" {
				t.Fatalf("unexpected token: %q", token)
			}
			return &domain.User{ID: "user_1"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "Bearer token123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequireSession(guard, cookieName)
	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireSession_MissingToken_API(t *testing.T) {
	e := echo.New()
	guard := &stubGuard{
		validateFn: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrSessionInvalid
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequireSession(guard, cookieName)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireSession_InvalidToken_BrowserRedirects(t *testing.T) {
	e := echo.New()
	guard := &stubGuard{
		validateFn: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrSessionInvalid
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "expired-token"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequireSession(guard, cookieName)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestRequireSession_StorageFailurePropagates(t *testing.T) {
	e := echo.New()
	guard := &stubGuard{
		validateFn: func(context.Context, string) (*domain.User, error) {
			return nil, context.DeadlineExceeded
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "token123"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequireSession(guard, cookieName)
	handler := mw(func(c echo.Context) error { return nil })

	if err := handler(c); err == nil {
		t.Fatalf("expected the storage error to propagate")
	}
}

func TestSessionToken_Extraction(t *testing.T) {
	e := echo.New()

	cases := []struct {
		name   string
		setup  func(*http.Request)
		expect string
	}{
		{
			name:   "cookie",
			setup:  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: cookieName, Value: "from-cookie"}) },
			expect: "from-cookie",
		},
		{
			name:   "bearer",
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer from-header") },
			expect: "from-header",
		},
		{
			name:   "wrong scheme",
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Basic dXNlcjpwYXNz") },
			expect: "",
		},
		{
			name:   "absent",
			setup:  func(*http.Request) {},
			expect: "",
		},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		tc.setup(req)
		c := e.NewContext(req, httptest.NewRecorder())
		if got := SessionToken(c, cookieName); got != tc.expect {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.expect, got)
		}
	}
}
