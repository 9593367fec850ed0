package workshop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"workshopd/internal/bootstrap/logging"
	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/errs"
	"workshopd/internal/ports"
)

func jobLockKey(jobID string) string {
	return "job:" + jobID
}

func (s *Service) admissionLockKey() string {
	return "admission:" + s.opts.CompanyID
}

// withLocks takes keys in order, runs fn and releases in reverse order.
// A key that stays held past the lock timeout fails the call with a
// retryable ErrBusy.
func (s *Service) withLocks(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	unlocks := make([]func(), 0, len(keys))
	defer func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}()

	for _, key := range keys {
		unlock, err := s.locker.Lock(ctx, key, s.opts.LockTimeout)
		if err != nil {
			if errors.Is(err, ports.ErrLockTimeout) {
				return errs.Retryable(fmt.Errorf("%w: %w", domain.ErrBusy, err))
			}
			return errs.Wrapf(err, "acquire lock %s", key)
		}
		unlocks = append(unlocks, unlock)
	}

	return fn(ctx)
}

// runSerialized retries op while it fails with a retryable error, up to the
// configured number of retries. Exhausted retries surface as ErrBusy.
func (s *Service) runSerialized(ctx context.Context, operation string, op func(ctx context.Context) error) error {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "usecase.workshop"), slog.String("operation", operation))

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := op(ctx)
		if err == nil {
			return struct{}{}, nil
		}
		if !errs.IsRetryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		logging.Debug(logCtx, "retryable conflict", slog.Int("attempt", attempt), slog.String("err", err.Error()))
		return struct{}{}, err
	},
		backoff.WithBackOff(newBusyBackOff()),
		backoff.WithMaxTries(uint(s.opts.BusyRetries+1)),
	)
	if err == nil {
		return nil
	}

	if errs.IsRetryable(err) {
		logging.Warn(logCtx, "giving up after contention", slog.Int("attempts", attempt))
		if !errors.Is(err, domain.ErrBusy) {
			return fmt.Errorf("%w: %w", domain.ErrBusy, err)
		}
	}
	return err
}

func newBusyBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	return b
}
