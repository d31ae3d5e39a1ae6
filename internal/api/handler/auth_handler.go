package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/api/middleware"
	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/domain"
	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/ports"
)

// CookieSettings controls how the session token is handed to browsers.
type CookieSettings struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type AuthHandler struct {
	credentials ports.CredentialService
	auth        ports.Authenticator
	sessions    ports.SessionGuard
	audit       ports.AuditRecorder
	cookie      CookieSettings
}

func NewAuthHandler(credentials ports.CredentialService, auth ports.Authenticator, sessions ports.SessionGuard, audit ports.AuditRecorder, cookie CookieSettings) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		auth:        auth,
		sessions:    sessions,
		audit:       audit,
		cookie:      cookie,
	}
}

type registerRequest struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

// Register creates a new account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}

	user, err := h.credentials.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "email already registered"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "name, email and password are required"})
		}
		return err
	}

	h.audit.Record(domain.AuthEvent{
		Type:    domain.EventUserRegistered,
		Subject: user.Email,
		UserID:  user.ID,
		At:      time.Now().UTC(),
	})

	if isFormRequest(c) {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	return c.JSON(http.StatusCreated, userResponse{User: user})
}

// Login authenticates a user and starts a session.
//
// A fresh token is issued on every login, and any token presented with the
// login request is destroyed first, so a pre-set cookie can never be fixed
// onto the new identity. Failures carry one generic message regardless of
// whether the email exists.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	ctx := c.Request().Context()
	user, err := h.auth.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.audit.Record(domain.AuthEvent{
				Type:    domain.EventLoginFailed,
				Subject: domain.NormalizeEmail(req.Email),
				At:      time.Now().UTC(),
			})
			if isFormRequest(c) {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}
		return err
	}

	if old := middleware.SessionToken(c, h.cookie.Name); old != "" {
		if err := h.sessions.Destroy(ctx, old); err != nil {
			return err
		}
	}

	token, err := h.sessions.Create(ctx, user)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, token)

	h.audit.Record(domain.AuthEvent{
		Type:    domain.EventLoginSucceeded,
		Subject: user.Email,
		UserID:  user.ID,
		At:      time.Now().UTC(),
	})

	if isFormRequest(c) {
		return c.Redirect(http.StatusSeeOther, "/secret")
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Logout destroys the presented session. Logging out without a session, or
// twice with the same token, succeeds all the same.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      204
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	token := middleware.SessionToken(c, h.cookie.Name)

	if token != "" {
		// Resolve the user first so the audit record names who left; an
		// invalid token still gets destroyed below.
		if user, err := h.sessions.Validate(ctx, token); err == nil {
			h.audit.Record(domain.AuthEvent{
				Type:    domain.EventLoggedOut,
				Subject: user.Email,
				UserID:  user.ID,
				At:      time.Now().UTC(),
			})
		}
		if err := h.sessions.Destroy(ctx, token); err != nil {
			return err
		}
	}
	h.clearSessionCookie(c)

	if isFormRequest(c) {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	return c.NoContent(http.StatusNoContent)
}

// LoginPage is the public login entry point protected routes redirect to.
// Rendering is out of scope; it answers with a machine-readable prompt.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "submit email and password to POST /login",
	})
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
