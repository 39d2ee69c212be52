// Package lock guards settlement against running twice for the same table.
// Locks expire on their own so a crashed terminal never wedges a table.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrHeld is returned when another caller holds the key
var ErrHeld = errors.New("lock: already held")

// Lease is a held lock
type Lease interface {
	// Release frees the key if this lease still owns it
	Release(ctx context.Context) error
}

type Locker interface {
	// TryLock acquires key for at most ttl, failing fast with ErrHeld
	TryLock(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}
