package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"alcyxob/health-tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrLockTimeout is returned when a key stays held past the caller's patience.
var ErrLockTimeout = errors.New("timed out waiting for lock")

// Release gives a held key back. It is safe to call once.
type Release func()

// Locker provides exclusive sections per key.
type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

// TrackerKey serializes recompute-and-persist for one tracker day.
func TrackerKey(ownerID primitive.ObjectID, kind domain.TrackerKind, day time.Time) string {
	return fmt.Sprintf("lock:tracker:%s:%s:%s", ownerID.Hex(), kind, day.Format("2006-01-02"))
}

// GenerationKey serializes check-and-create on one generation timeline.
func GenerationKey(ownerID primitive.ObjectID, kind domain.GenerationKind) string {
	return fmt.Sprintf("lock:generation:%s:%s", ownerID.Hex(), kind)
}

// MemoryLocker is an in-process Locker for single-instance deployments and tests.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

// NewMemoryLocker creates an empty MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]chan struct{})}
}

// Acquire blocks until key is free or ctx is done.
func (l *MemoryLocker) Acquire(ctx context.Context, key string) (Release, error) {
	for {
		l.mu.Lock()
		wait, busy := l.held[key]
		if !busy {
			done := make(chan struct{})
			l.held[key] = done
			l.mu.Unlock()

			var once sync.Once
			return func() {
				once.Do(func() {
					l.mu.Lock()
					delete(l.held, key)
					l.mu.Unlock()
					close(done)
				})
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrLockTimeout, key, ctx.Err())
		}
	}
}
