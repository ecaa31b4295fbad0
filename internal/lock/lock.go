// Package lock provides the mutual exclusion used to keep one guest sweep
// running at a time across server instances.
package lock

import (
	"context"
	"time"
)

// Locker hands out named, expiring locks. TryAcquire never blocks: it
// reports false when somebody else holds the lock.
type Locker interface {
	TryAcquire(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error)
}

// Local is the single-instance Locker; every acquisition succeeds.
type Local struct{}

func (Local) TryAcquire(context.Context, string, time.Duration) (func(), bool, error) {
	return func() {}, true, nil
}
