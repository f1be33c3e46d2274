package worker

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashestree87/socialize/internal/crypto"
	"github.com/ashestree87/socialize/internal/domain"
	"github.com/ashestree87/socialize/internal/lease"
	"github.com/ashestree87/socialize/internal/publisher"
	"github.com/ashestree87/socialize/internal/queue"
	"github.com/ashestree87/socialize/internal/repository"
	"github.com/ashestree87/socialize/internal/service"
	"github.com/ashestree87/socialize/internal/storage"
)

type poolFixture struct {
	svc        service.UploadService
	queue      *queue.MemoryQueue
	uploadRepo *repository.MemoryUploadRepository
	mock       *publisher.MockPublisher
	userID     string
	platformID string
}

func newPoolFixture(t *testing.T) *poolFixture {
	t.Helper()
	ctx := context.Background()

	encryptor, err := crypto.NewEncryptor("worker-test-secret")
	require.NoError(t, err)

	platformRepo := repository.NewMemoryPlatformRepository()
	uploadRepo := repository.NewMemoryUploadRepository(platformRepo)
	memQueue := queue.NewMemoryQueue(32)
	t.Cleanup(func() { memQueue.Close() })

	mock := publisher.NewMockPublisher()
	registry := publisher.NewRegistry()
	registry.Register(domain.PlatformTypeTwitter, mock)

	creds, err := encryptor.EncryptMap(map[string]string{"api_key": "k"})
	require.NoError(t, err)

	userID := uuid.New().String()
	platformID := uuid.New().String()
	require.NoError(t, platformRepo.Create(ctx, &domain.SocialPlatform{
		ID:           platformID,
		TenantID:     uuid.New().String(),
		Name:         "Main Twitter",
		PlatformType: domain.PlatformTypeTwitter,
		Credentials:  creds,
		IsEnabled:    true,
	}))

	svc := service.NewUploadService(
		uploadRepo, platformRepo, storage.NewLocalDriver(t.TempDir(), "url-secret"),
		encryptor, memQueue, lease.NewMemoryLease(), registry,
		publisher.RetryConfig{MaxAttempts: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
		service.UploadConfig{MaxFileSize: 1 << 20, SignedURLTTL: time.Minute, LeaseTTL: time.Minute},
	)

	return &poolFixture{
		svc:        svc,
		queue:      memQueue,
		uploadRepo: uploadRepo,
		mock:       mock,
		userID:     userID,
		platformID: platformID,
	}
}

func (f *poolFixture) createPendingUpload(t *testing.T) string {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.userID, &service.CreateUploadParams{
		SocialPlatformID: f.platformID,
		FileName:         "clip.mp4",
		FileType:         "video/mp4",
		FileSize:         5,
		Content:          strings.NewReader("bytes"),
	})
	require.NoError(t, err)
	return resp.ID
}

func waitForStatus(t *testing.T, repo *repository.MemoryUploadRepository, id string, want domain.UploadStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		upload, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		if upload != nil && upload.Status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("upload %s never reached status %s", id, want)
}

func TestPool_ProcessesQueuedJobs(t *testing.T) {
	f := newPoolFixture(t)
	ctx := context.Background()

	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		id := f.createPendingUpload(t)
		_, err := f.svc.Publish(ctx, f.userID, id)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	pool := NewPool(f.queue, f.svc, Config{Workers: 3, JobTimeout: time.Second})
	pool.Start(ctx)
	defer pool.Stop()

	for _, id := range ids {
		waitForStatus(t, f.uploadRepo, id, domain.StatusPublished)
	}

	assert.Equal(t, 5, f.mock.Calls())

	deadline := time.Now().Add(time.Second)
	for pool.Stats().Processed < 5 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	stats := pool.Stats()
	assert.Equal(t, uint64(5), stats.Processed)
	assert.Equal(t, uint64(0), stats.Failed)
}

func TestPool_DuplicateJobsPublishOnce(t *testing.T) {
	f := newPoolFixture(t)
	ctx := context.Background()

	id := f.createPendingUpload(t)
	_, err := f.svc.Publish(ctx, f.userID, id)
	require.NoError(t, err)

	// A redelivered job is a no-op once the upload left pending
	for i := 0; i < 3; i++ {
		require.NoError(t, f.queue.Enqueue(ctx, &queue.Job{
			UploadID:   id,
			Attempt:    1,
			EnqueuedAt: time.Now(),
		}))
	}

	pool := NewPool(f.queue, f.svc, Config{Workers: 4, JobTimeout: time.Second})
	pool.Start(ctx)

	waitForStatus(t, f.uploadRepo, id, domain.StatusPublished)

	deadline := time.Now().Add(time.Second)
	for pool.Stats().Processed < 4 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	pool.Stop()

	assert.Equal(t, 1, f.mock.Calls())
}

func TestPool_FailedPublishMarksUpload(t *testing.T) {
	f := newPoolFixture(t)
	ctx := context.Background()

	f.mock.ShouldFail = true
	f.mock.FailureError = fmt.Errorf("rate limited")

	id := f.createPendingUpload(t)
	_, err := f.svc.Publish(ctx, f.userID, id)
	require.NoError(t, err)

	pool := NewPool(f.queue, f.svc, Config{Workers: 1, JobTimeout: time.Second})
	pool.Start(ctx)
	defer pool.Stop()

	waitForStatus(t, f.uploadRepo, id, domain.StatusFailed)

	upload, err := f.uploadRepo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, upload.FailureReason, "rate limited")
}

func TestPool_StopWaitsForWorkers(t *testing.T) {
	f := newPoolFixture(t)

	pool := NewPool(f.queue, f.svc, Config{Workers: 2, JobTimeout: time.Second})
	pool.Start(context.Background())

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after cancelling workers")
	}
}
