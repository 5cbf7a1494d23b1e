package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

var ErrLockTimeout = errors.New("failed to acquire file lock")

const (
	// LockSuffix names the lock file next to the state file.
	LockSuffix = ".lock"

	lockRetryDelay = 25 * time.Millisecond
)

// FlockLocker serializes access to the state file with an exclusive
// advisory lock on a sibling lock file. The kernel releases the lock
// when the holding process exits, so a crash never wedges the store.
type FlockLocker struct {
	path    string
	timeout time.Duration // zero waits forever
}

func NewFlockLocker(path string, timeout time.Duration) *FlockLocker {
	return &FlockLocker{path: path, timeout: timeout}
}

// WithLock acquires the lock, runs fn and releases on every exit path.
// Each call opens its own file description, so goroutines sharing one
// FlockLocker contend exactly the way separate processes do.
func (l *FlockLocker) WithLock(ctx context.Context, fn func() error) error {
	fl := flock.New(l.path)

	lockCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	ok, err := fl.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w within %s", ErrLockTimeout, l.timeout)
		}
		return fmt.Errorf("acquire file lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w within %s", ErrLockTimeout, l.timeout)
	}
	defer fl.Unlock()

	return fn()
}
