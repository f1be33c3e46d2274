package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ashestree87/socialize/internal/queue"
	"github.com/ashestree87/socialize/internal/service"
	"github.com/ashestree87/socialize/pkg/logger"
)

// Config holds publish worker pool settings
type Config struct {
	Workers    int
	JobTimeout time.Duration
}

// DefaultConfig returns sensible worker defaults
func DefaultConfig() Config {
	return Config{
		Workers:    4,
		JobTimeout: 60 * time.Second,
	}
}

// Stats is a snapshot of pool counters
type Stats struct {
	Processed uint64
	Failed    uint64
}

// Pool consumes publish jobs from the queue and hands them to the
// upload service. Duplicate deliveries are safe, each job is claimed
// against the upload status before any work happens.
type Pool struct {
	queue   queue.PublishQueue
	uploads service.UploadService
	config  Config

	processed atomic.Uint64
	failed    atomic.Uint64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool creates a publish worker pool
func NewPool(q queue.PublishQueue, uploads service.UploadService, cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = DefaultConfig().JobTimeout
	}
	return &Pool{queue: q, uploads: uploads, config: cfg}
}

// Start launches the worker goroutines. It returns immediately; call
// Stop to drain and wait for them.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	logger.Info("starting publish workers", zap.Int("workers", p.config.Workers))

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			if err := p.queue.Consume(ctx, p.handle); err != nil && ctx.Err() == nil {
				logger.Error("publish consumer exited", zap.Int("worker", id), zap.Error(err))
			}
		}(i)
	}
}

// Stop cancels the workers and waits for in-flight jobs to finish
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

// Stats returns a snapshot of pool counters
func (p *Pool) Stats() Stats {
	return Stats{
		Processed: p.processed.Load(),
		Failed:    p.failed.Load(),
	}
}

func (p *Pool) handle(ctx context.Context, job *queue.Job) error {
	jobCtx, cancel := context.WithTimeout(ctx, p.config.JobTimeout)
	defer cancel()

	start := time.Now()
	err := p.uploads.ProcessPublish(jobCtx, job)
	if err != nil {
		p.failed.Add(1)
		logger.Error("publish job failed",
			zap.String("upload_id", job.UploadID),
			zap.Int("attempt", job.Attempt),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return err
	}

	p.processed.Add(1)
	logger.Debug("publish job processed",
		zap.String("upload_id", job.UploadID),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
