package handler

import (
	"net/http"

	"sso-gate/internal/domain"

	"github.com/labstack/echo/v4"
)

// LogoutHandler clears the local session and hands the browser to the
// provider's logout endpoint.
type LogoutHandler struct {
	urls domain.AuthURLSource
}

// NewLogoutHandler creates a new logout handler.
func NewLogoutHandler(urls domain.AuthURLSource) *LogoutHandler {
	return &LogoutHandler{urls: urls}
}

// Handle processes /auth/logout.
func (h *LogoutHandler) Handle(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusFound, h.urls.LogoutURL())
}
