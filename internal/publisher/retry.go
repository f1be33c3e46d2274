package publisher

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/ashestree87/socialize/pkg/logger"
)

// RetryConfig holds retry behavior for transient publish failures
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryConfig returns sensible retry defaults
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
	}
}

// RetryingPublisher wraps a Publisher with exponential backoff. The
// wrapped request keeps its idempotency key, so a retry after an
// ambiguous failure cannot double-post.
type RetryingPublisher struct {
	inner  Publisher
	config RetryConfig
}

// NewRetryingPublisher wraps a publisher with retry behavior
func NewRetryingPublisher(inner Publisher, cfg RetryConfig) *RetryingPublisher {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &RetryingPublisher{inner: inner, config: cfg}
}

// Publish attempts the inner publish up to MaxAttempts times
func (p *RetryingPublisher) Publish(ctx context.Context, req *Request) (*Result, error) {
	var lastErr error

	for attempt := 1; attempt <= p.config.MaxAttempts; attempt++ {
		result, err := p.inner.Publish(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == p.config.MaxAttempts {
			break
		}

		delay := p.backoff(attempt)
		logger.WithContext(ctx).Warn("publish attempt failed, backing off",
			zap.String("upload_id", req.Upload.ID),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// backoff returns the delay before the next attempt: exponential in
// the attempt number with up to 25% jitter, capped at MaxDelay.
func (p *RetryingPublisher) backoff(attempt int) time.Duration {
	delay := p.config.BaseDelay << (attempt - 1)
	if delay > p.config.MaxDelay {
		delay = p.config.MaxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/4 + 1))
	return delay + jitter
}
