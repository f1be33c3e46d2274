package publisher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashestree87/socialize/internal/domain"
)

func testRequest() *Request {
	return &Request{
		Upload:         &domain.ContentUpload{ID: "upload-1", FileName: "clip.mp4"},
		PlatformName:   "Main Account",
		Credentials:    map[string]string{"api_key": "k", "api_secret": "s"},
		IdempotencyKey: "upload-1",
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Get(domain.PlatformTypeTwitter)
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)

	mock := NewMockPublisher()
	registry.Register(domain.PlatformTypeTwitter, mock)

	p, err := registry.Get(domain.PlatformTypeTwitter)
	require.NoError(t, err)
	assert.Equal(t, mock, p)
}

func TestRegisterSimulated_CoversAllTypes(t *testing.T) {
	registry := NewRegistry()
	RegisterSimulated(registry)

	for _, platformType := range []domain.PlatformType{
		domain.PlatformTypeTwitter,
		domain.PlatformTypeFacebook,
		domain.PlatformTypeInstagram,
		domain.PlatformTypeLinkedIn,
		domain.PlatformTypeTikTok,
		domain.PlatformTypeYouTube,
	} {
		_, err := registry.Get(platformType)
		assert.NoError(t, err, "missing publisher for %s", platformType)
	}
}

func TestSimulatedPublisher_Deterministic(t *testing.T) {
	ctx := context.Background()
	p := NewSimulatedPublisher(domain.PlatformTypeTwitter)

	first, err := p.Publish(ctx, testRequest())
	require.NoError(t, err)
	require.NotEmpty(t, first.ExternalPostID)

	// Same idempotency key yields the same post
	second, err := p.Publish(ctx, testRequest())
	require.NoError(t, err)
	assert.Equal(t, first.ExternalPostID, second.ExternalPostID)

	other := testRequest()
	other.IdempotencyKey = "upload-2"
	third, err := p.Publish(ctx, other)
	require.NoError(t, err)
	assert.NotEqual(t, first.ExternalPostID, third.ExternalPostID)
}

func TestSimulatedPublisher_MissingCredentials(t *testing.T) {
	p := NewSimulatedPublisher(domain.PlatformTypeFacebook)

	req := testRequest()
	req.Credentials = nil

	_, err := p.Publish(context.Background(), req)
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestRetryingPublisher_EventualSuccess(t *testing.T) {
	mock := NewMockPublisher()
	mock.FailTimes = 2

	p := NewRetryingPublisher(mock, RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	})

	result, err := p.Publish(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "mock-post-1", result.ExternalPostID)
	assert.Equal(t, 3, mock.Calls())
}

func TestRetryingPublisher_Exhausted(t *testing.T) {
	mock := NewMockPublisher()
	mock.ShouldFail = true

	p := NewRetryingPublisher(mock, RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	})

	_, err := p.Publish(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrMockPublishFailure)
	assert.Equal(t, 3, mock.Calls())
}

func TestRetryingPublisher_ContextCancelled(t *testing.T) {
	mock := NewMockPublisher()
	mock.ShouldFail = true

	p := NewRetryingPublisher(mock, RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		MaxDelay:    time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Publish(ctx, testRequest())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.Calls())
}
