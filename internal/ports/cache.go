package ports

import (
	"context"
	"time"
)

// Cache is a best-effort key-value store. Callers must tolerate misses and
// treat errors as misses; the source of truth stays in the repositories.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
