package lease

import (
	"context"
	"time"
)

// Lease is a distributed mutual-exclusion primitive with expiry. A
// holder that crashes stops renewing and the lease lapses after its
// TTL, so stuck work never blocks others forever.
type Lease interface {
	// Acquire attempts to take the lease on key for ttl. It returns a
	// release token and true on success, or false when another holder
	// has the lease.
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	// Release gives up the lease. The token must match the one
	// returned by Acquire; a stale token releases nothing.
	Release(ctx context.Context, key, token string) error
}
