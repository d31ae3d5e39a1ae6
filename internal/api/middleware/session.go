package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/domain"
	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/ports"
)

// SessionToken extracts the opaque session token from a request: the session
// cookie for browser clients, or an Authorization bearer header for API
// clients. Returns "" when neither is present.
func SessionToken(c echo.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// RequireSession gates protected routes. A valid session injects the bound
// user into the echo context under "user"; anything else sends browser
// clients back to the login page and API clients a bare 401 — protected
// content and failure details are never disclosed.
func RequireSession(guard ports.SessionGuard, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := SessionToken(c, cookieName)

			user, err := guard.Validate(c.Request().Context(), token)
			if err != nil {
				if !errors.Is(err, domain.ErrSessionInvalid) {
					return err // storage failure; central handler logs it
				}
				if wantsHTML(c) {
					return c.Redirect(http.StatusSeeOther, "/login")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			c.Set("user", user)
			return next(c)
		}
	}
}

// wantsHTML reports whether the client is a browser navigating pages rather
// than an API consumer.
func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get("Accept"), echo.MIMETextHTML)
}
