package lock

import (
	"context"
	"errors"
	"time"
)

// ErrNotAcquired is returned when ctx ends before the lock could be taken.
var ErrNotAcquired = errors.New("lock not acquired")

const retryInterval = 25 * time.Millisecond

// Locker hands out mutually exclusive, expiring locks by key.
type Locker interface {
	// Acquire blocks until key is held or ctx is done. The lock expires after
	// ttl even if release is never called.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// retry calls try until it succeeds, fails, or ctx ends.
func retry(ctx context.Context, try func() (bool, error)) error {
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := try()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return errors.Join(ErrNotAcquired, ctx.Err())
		case <-ticker.C:
		}
	}
}
