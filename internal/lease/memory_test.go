package lease

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLease_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLease()

	token, ok, err := l.Acquire(ctx, "publish:lease:u1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, token)

	// Held lease cannot be taken again
	_, ok, err = l.Acquire(ctx, "publish:lease:u1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Release(ctx, "publish:lease:u1", token))

	_, ok, err = l.Acquire(ctx, "publish:lease:u1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLease_StaleTokenDoesNotRelease(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLease()

	_, ok, err := l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, l.Release(ctx, "k", "not-the-token"))

	_, ok, err = l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "lease should survive a release with a stale token")
}

func TestMemoryLease_Expiry(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLease()

	current := time.Now()
	l.now = func() time.Time { return current }

	_, ok, err := l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	current = current.Add(30 * time.Second)
	_, ok, err = l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	current = current.Add(31 * time.Second)
	_, ok, err = l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "expired lease should be acquirable")
}

func TestMemoryLease_ConcurrentSingleHolder(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLease()

	const contenders = 20
	var wg sync.WaitGroup
	acquired := make(chan string, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, ok, err := l.Acquire(ctx, "shared", time.Minute)
			assert.NoError(t, err)
			if ok {
				acquired <- token
			}
		}()
	}
	wg.Wait()
	close(acquired)

	assert.Len(t, acquired, 1, "exactly one contender should hold the lease")
}
