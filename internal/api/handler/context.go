package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/domain"
)

// ctxUser extracts the authenticated user injected by the RequireSession
// middleware. Its presence proves the middleware ran; a protected handler
// reached without it is a wiring bug, answered with 401 rather than a panic.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get("user").(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return user, nil
}

// isFormRequest reports whether the request came from an HTML form post, in
// which case responses follow the browser redirect flow instead of JSON.
func isFormRequest(c echo.Context) bool {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(ct, echo.MIMEApplicationForm) ||
		strings.HasPrefix(ct, echo.MIMEMultipartForm)
}
