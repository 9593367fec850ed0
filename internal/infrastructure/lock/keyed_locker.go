package lock

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"workshopd/internal/errs"
	"workshopd/internal/ports"
)

// KeyedLocker hands out one exclusive slot per key. Entries are reference
// counted and dropped once no caller holds or waits on them.
type KeyedLocker struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	sem  *semaphore.Weighted
	refs int
}

var _ ports.Locker = (*KeyedLocker)(nil)

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{entries: make(map[string]*lockEntry)}
}

// Lock blocks until key is free, ctx is done or timeout elapses. A timeout
// <= 0 waits on ctx alone.
func (l *KeyedLocker) Lock(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("lock key is required")
	}

	entry := l.acquireEntry(key)

	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := entry.sem.Acquire(waitCtx, 1); err != nil {
		l.releaseEntry(key, entry)
		if ctx.Err() != nil {
			return nil, errs.Wrap(ctx.Err(), "wait for lock")
		}
		return nil, errs.Wrapf(ports.ErrLockTimeout, "lock %q", key)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.sem.Release(1)
			l.releaseEntry(key, entry)
		})
	}, nil
}

func (l *KeyedLocker) acquireEntry(key string) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok {
		entry = &lockEntry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = entry
	}
	entry.refs++
	return entry
}

func (l *KeyedLocker) releaseEntry(key string, entry *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.refs--
	if entry.refs <= 0 {
		delete(l.entries, key)
	}
}

func (l *KeyedLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
