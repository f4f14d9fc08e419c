package usecase

import (
	"context"
	"errors"
	"log/slog"

	"sso-gate/internal/domain"
)

// VerifyToken orchestrates token verification with cache-through strategy.
type VerifyToken struct {
	verifier domain.TokenVerifier
	cache    domain.VerificationCache
	logger   *slog.Logger
}

// NewVerifyToken creates a new VerifyToken usecase.
func NewVerifyToken(v domain.TokenVerifier, c domain.VerificationCache, l *slog.Logger) *VerifyToken {
	return &VerifyToken{verifier: v, cache: c, logger: l}
}

// Execute returns the identity for token, consulting the cache before the
// provider. A rejected token is evicted so a revoked credential stops being
// honored on the next uncached check. Provider outages never authenticate.
func (uc *VerifyToken) Execute(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrMissingCredential
	}

	// Check cache first
	if identity, found := uc.cache.Get(token); found {
		return identity, nil
	}

	identity, err := uc.verifier.VerifyToken(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredential):
			// Remove stale cache entry if the token was previously valid
			uc.cache.Invalidate(token)
			uc.logger.DebugContext(ctx, "token verification rejected", "error", err)
		case errors.Is(err, domain.ErrProviderUnreachable):
			uc.logger.WarnContext(ctx, "token verification request failed", "error", err)
		}
		return nil, err
	}

	uc.cache.Set(token, *identity)
	return identity, nil
}
