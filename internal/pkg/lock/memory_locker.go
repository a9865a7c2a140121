package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// MemoryLocker is a single-process Locker backed by go-cache. It is the
// fallback when Redis is not configured.
type MemoryLocker struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		cache: cache.New(cache.NoExpiration, time.Minute),
	}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()

	err := retry(ctx, func() (bool, error) {
		// Add fails while an unexpired entry exists. It shares mu with
		// release so a release never deletes an entry added after its check.
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.cache.Add(key, token, ttl) == nil, nil
	})
	if err != nil {
		return nil, err
	}

	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if current, found := l.cache.Get(key); found && current == token {
			l.cache.Delete(key)
		}
	}
	return release, nil
}
