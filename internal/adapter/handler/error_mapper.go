package handler

import (
	"errors"
	"net/http"

	"sso-gate/internal/domain"

	"github.com/labstack/echo/v4"
)

// errorBody is the JSON shape every auth failure uses.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// mapExchangeError converts a code exchange failure into the response the
// caller sees.
func mapExchangeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrProviderUnreachable):
		return c.JSON(http.StatusBadGateway, errorBody{
			Error:   "sso_unavailable",
			Message: "Unable to reach SSO server.",
		})

	case errors.Is(err, domain.ErrProviderRejected):
		return c.JSON(http.StatusUnauthorized, errorBody{
			Error:   "token_exchange_failed",
			Message: "SSO token exchange failed.",
		})

	case errors.Is(err, domain.ErrMalformedResponse):
		return c.JSON(http.StatusUnauthorized, errorBody{
			Error:   "no_access_token",
			Message: "No access token in SSO response.",
		})

	default:
		return c.JSON(http.StatusInternalServerError, errorBody{
			Error:   "internal_error",
			Message: "Internal server error.",
		})
	}
}
