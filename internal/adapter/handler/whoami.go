package handler

import (
	"net/http"

	"sso-gate/internal/domain"

	"github.com/labstack/echo/v4"
)

// whoamiResponse mirrors the verified identity fields.
type whoamiResponse struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

// WhoamiHandler reports the identity attached to the current request.
type WhoamiHandler struct{}

// NewWhoamiHandler creates a new whoami handler.
func NewWhoamiHandler() *WhoamiHandler {
	return &WhoamiHandler{}
}

// Handle processes /api/sso/me.
func (h *WhoamiHandler) Handle(c echo.Context) error {
	identity, ok := domain.IdentityFromContext(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody{
			Error:   "not_authenticated",
			Message: "No SSO session found.",
		})
	}

	return c.JSON(http.StatusOK, whoamiResponse{
		Sub:   identity.Subject,
		Name:  identity.Name,
		Role:  identity.Role,
		Email: identity.Email,
	})
}
