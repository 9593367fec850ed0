package ports

import (
	"context"
	"errors"
	"time"
)

var ErrLockTimeout = errors.New("lock acquisition timed out")

// Locker serializes work per key. Lock blocks at most timeout and returns
// ErrLockTimeout when the key stays held.
type Locker interface {
	Lock(ctx context.Context, key string, timeout time.Duration) (unlock func(), err error)
}

// Clock supplies the current time; tests substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a Clock backed by time.Now in UTC.
func SystemClock() Clock { return systemClock{} }
