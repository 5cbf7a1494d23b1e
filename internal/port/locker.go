package port

import "context"

type Locker interface {
	// WithLock runs fn under an exclusive lock shared across processes, releasing it on every exit path
	WithLock(ctx context.Context, fn func() error) error
}
