package usecase

import (
	"context"
	"log/slog"

	"sso-gate/internal/domain"
)

// ExchangeCode orchestrates the OAuth authorization code exchange.
type ExchangeCode struct {
	exchanger domain.CodeExchanger
	logger    *slog.Logger
}

// NewExchangeCode creates a new ExchangeCode usecase.
func NewExchangeCode(e domain.CodeExchanger, l *slog.Logger) *ExchangeCode {
	return &ExchangeCode{exchanger: e, logger: l}
}

// Execute trades the authorization code for an access token. The returned
// error carries the provider status and a body excerpt, never the code or
// any credential material.
func (uc *ExchangeCode) Execute(ctx context.Context, code string) (string, error) {
	token, err := uc.exchanger.ExchangeCode(ctx, code)
	if err != nil {
		uc.logger.ErrorContext(ctx, "authorization code exchange failed", "error", err)
		return "", err
	}
	return token, nil
}
