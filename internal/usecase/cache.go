package usecase

import (
	"context"
	"time"
)

// Cache is the subset of the Redis client the usecases rely on. A nil
// Cache disables caching and locking.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}
