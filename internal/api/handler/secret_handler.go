package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SecretHandler serves the authorization-gated resource. The interesting
// part is the gate, not the content.
type SecretHandler struct{}

func NewSecretHandler() *SecretHandler {
	return &SecretHandler{}
}

// Show returns the protected content to an authenticated user.
//
// @Summary      Protected resource
// @Tags         secret
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /secret [get]
func (h *SecretHandler) Show(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"secret": "the cake is a lie",
		"name":   user.Name,
	})
}
