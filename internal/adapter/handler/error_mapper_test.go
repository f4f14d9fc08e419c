package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"sso-gate/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapExchangeError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantError string
	}{
		{"provider unreachable", domain.ErrProviderUnreachable, http.StatusBadGateway, "sso_unavailable"},
		{"provider rejected", domain.ErrProviderRejected, http.StatusUnauthorized, "token_exchange_failed"},
		{"malformed response", domain.ErrMalformedResponse, http.StatusUnauthorized, "no_access_token"},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/callback", nil), rec)

			require.NoError(t, mapExchangeError(c, tt.err))
			assert.Equal(t, tt.wantCode, rec.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestMapExchangeError_WrappedErrors(t *testing.T) {
	// Wrapped domain errors should still be detected
	wrapped := fmt.Errorf("exchange failed: %w", domain.ErrProviderRejected)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/callback", nil), rec)

	require.NoError(t, mapExchangeError(c, wrapped))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Double-wrapped
	doubleWrapped := fmt.Errorf("outer: %w", wrapped)
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/callback", nil), rec2)

	require.NoError(t, mapExchangeError(c2, doubleWrapped))
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
}
