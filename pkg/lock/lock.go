// Package lock serializes work on a single key, either inside one process or
// across processes through Redis.
package lock

import (
	"context"
	"errors"
)

// ErrTimeout means the lock was still held by someone else when the wait
// budget ran out.
var ErrTimeout = errors.New("timed out waiting for lock")

// Locker hands out one holder per key at a time. The returned unlock must be
// called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
