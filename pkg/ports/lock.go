package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a previously acquired lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes access to a shared document across processes,
// e.g. two workers editing the same case.
type DistributedLocker interface {
	// Lock blocks until the lock for key is acquired or ctx is done.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
