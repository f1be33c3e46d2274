package lease

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// MemoryLease implements Lease in process memory. Used in tests and
// single-instance deployments without Redis.
type MemoryLease struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryLease creates a new MemoryLease
func NewMemoryLease() *MemoryLease {
	return &MemoryLease{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Acquire attempts to take the lease on key for ttl
func (l *MemoryLease) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if entry, ok := l.entries[key]; ok && now.Before(entry.expiresAt) {
		return "", false, nil
	}

	token := uuid.New().String()
	l.entries[key] = memoryEntry{token: token, expiresAt: now.Add(ttl)}
	return token, true, nil
}

// Release gives up the lease if the token still matches
func (l *MemoryLease) Release(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry, ok := l.entries[key]; ok && entry.token == token {
		delete(l.entries, key)
	}
	return nil
}
