package domain

import "errors"

// Credential errors.
var (
	ErrMissingCredential = errors.New("no credential presented")
	ErrInvalidCredential = errors.New("credential rejected by identity provider")
)

// Provider errors.
var (
	ErrProviderUnreachable = errors.New("identity provider unreachable")
	ErrProviderRejected    = errors.New("identity provider rejected the request")
	ErrMalformedResponse   = errors.New("malformed identity provider response")
)
