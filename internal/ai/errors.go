package ai

import "errors"

var (
	// ErrProviderUnavailable covers missing credentials, transport failures,
	// an open circuit breaker and exhausted rate limits.
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	// ErrResponseUnparseable means the provider answered but the payload
	// could not be decoded into the expected shape.
	ErrResponseUnparseable = errors.New("ai provider response unparseable")
)
