package queue

import (
	"context"
	"encoding/json"
	"time"
)

// Job is a publish request for a single upload. Attempt counts
// redeliveries so consumers can cap retries.
type Job struct {
	UploadID   string    `json:"upload_id"`
	Attempt    int       `json:"attempt"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Marshal encodes the job for the wire
func (j *Job) Marshal() ([]byte, error) {
	return json.Marshal(j)
}

// UnmarshalJob decodes a job from the wire
func UnmarshalJob(data []byte) (*Job, error) {
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Handler processes a dequeued job. Returning an error requeues it
// up to the consumer's retry cap.
type Handler func(ctx context.Context, job *Job) error

// PublishQueue moves publish jobs from the API to the workers
type PublishQueue interface {
	// Enqueue submits a job for processing
	Enqueue(ctx context.Context, job *Job) error
	// Consume delivers jobs to the handler until ctx is cancelled
	Consume(ctx context.Context, handler Handler) error
	// Close releases the queue's resources
	Close() error
}
