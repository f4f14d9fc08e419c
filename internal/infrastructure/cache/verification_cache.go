package cache

import (
	"time"

	"sso-gate/internal/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// VerificationCache holds identities for recently verified tokens.
// Entries expire after the configured TTL and the cache is bounded, so a
// flood of distinct tokens evicts the least recently used entries instead of
// growing without limit. Implements domain.VerificationCache.
type VerificationCache struct {
	lru *expirable.LRU[string, domain.Identity]
}

// NewVerificationCache creates a cache bounded to maxEntries with a per-entry
// TTL. A maxEntries of 0 leaves the cache unbounded.
func NewVerificationCache(maxEntries int, ttl time.Duration) *VerificationCache {
	return &VerificationCache{
		lru: expirable.NewLRU[string, domain.Identity](maxEntries, nil, ttl),
	}
}

// Get retrieves the identity for a token if present and not expired.
func (c *VerificationCache) Get(token string) (*domain.Identity, bool) {
	identity, found := c.lru.Get(token)
	if !found {
		return nil, false
	}
	return &identity, true
}

// Set stores the identity for a verified token.
func (c *VerificationCache) Set(token string, identity domain.Identity) {
	c.lru.Add(token, identity)
}

// Invalidate drops the entry for a token, typically after the provider
// rejects it.
func (c *VerificationCache) Invalidate(token string) {
	c.lru.Remove(token)
}
