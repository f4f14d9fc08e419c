package handler

import (
	"net/http"

	"sso-gate/internal/domain"
	"sso-gate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// sessionMaxAge is how long the session cookie lives, in seconds.
const sessionMaxAge = 86400

// CallbackHandler completes the authorization code flow.
type CallbackHandler struct {
	exchange *usecase.ExchangeCode
}

// NewCallbackHandler creates a new callback handler.
func NewCallbackHandler(exchange *usecase.ExchangeCode) *CallbackHandler {
	return &CallbackHandler{exchange: exchange}
}

// Handle processes /auth/callback. The provider redirects here with an
// authorization code; a successful exchange sets the session cookie and sends
// the browser back to the URL carried in state.
func (h *CallbackHandler) Handle(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, errorBody{
			Error:   "missing_code",
			Message: "No authorization code provided.",
		})
	}

	token, err := h.exchange.Execute(c.Request().Context(), code)
	if err != nil {
		return mapExchangeError(c, err)
	}

	target := c.QueryParam("state")
	if target == "" {
		target = "/"
	}

	c.SetCookie(&http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    token,
		MaxAge:   sessionMaxAge,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusFound, target)
}
