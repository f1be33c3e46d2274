package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueClosed is returned when enqueuing to a closed queue
var ErrQueueClosed = errors.New("queue is closed")

// MemoryQueue implements PublishQueue on a buffered channel. Used in
// tests and single-instance deployments without Kafka.
type MemoryQueue struct {
	jobs   chan *Job
	mu     sync.Mutex
	closed bool
}

// NewMemoryQueue creates a new MemoryQueue with the given buffer size
func NewMemoryQueue(buffer int) *MemoryQueue {
	if buffer <= 0 {
		buffer = 256
	}
	return &MemoryQueue{jobs: make(chan *Job, buffer)}
}

// Enqueue submits a job for processing
func (q *MemoryQueue) Enqueue(ctx context.Context, job *Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.mu.Unlock()

	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume delivers jobs to the handler until ctx is cancelled or the
// queue is closed and drained. Handler errors are swallowed; the
// handler owns retry bookkeeping.
func (q *MemoryQueue) Consume(ctx context.Context, handler Handler) error {
	for {
		select {
		case job, ok := <-q.jobs:
			if !ok {
				return nil
			}
			_ = handler(ctx, job)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops accepting jobs. Buffered jobs remain consumable.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	return nil
}
