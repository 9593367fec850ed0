package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"workshopd/internal/ports"
)

func TestKeyedLockerSerializesSameKey(t *testing.T) {
	locker := NewKeyedLocker()
	ctx := context.Background()

	var inside atomic.Int32
	var maxInside atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "job:1", time.Second)
			if err != nil {
				t.Errorf("Lock() error = %v", err)
				return
			}
			n := inside.Add(1)
			for {
				cur := maxInside.Load()
				if n <= cur || maxInside.CompareAndSwap(cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	if got := maxInside.Load(); got != 1 {
		t.Fatalf("max concurrent holders = %d, want 1", got)
	}
	if got := locker.size(); got != 0 {
		t.Fatalf("entries after release = %d, want 0", got)
	}
}

func TestKeyedLockerTimesOut(t *testing.T) {
	locker := NewKeyedLocker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "job:1", time.Second)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	defer unlock()

	_, err = locker.Lock(ctx, "job:1", 20*time.Millisecond)
	if !errors.Is(err, ports.ErrLockTimeout) {
		t.Fatalf("Lock(held) error = %v, want ErrLockTimeout", err)
	}

	other, err := locker.Lock(ctx, "job:2", 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Lock(other key) error = %v", err)
	}
	other()
}

func TestKeyedLockerUnlockIsIdempotent(t *testing.T) {
	locker := NewKeyedLocker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "job:1", time.Second)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	unlock()
	unlock()

	again, err := locker.Lock(ctx, "job:1", 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Lock(after unlock) error = %v", err)
	}
	again()
}

func TestKeyedLockerHonoursCanceledContext(t *testing.T) {
	locker := NewKeyedLocker()

	unlock, err := locker.Lock(context.Background(), "job:1", time.Second)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = locker.Lock(ctx, "job:1", time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Lock(canceled) error = %v, want context.Canceled", err)
	}
}
