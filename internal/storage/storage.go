package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when the requested object does not exist
var ErrNotFound = errors.New("storage: object not found")

// Driver abstracts the object store backing content uploads. Download
// access always goes through time-limited signed URLs so the concrete
// store (local disk vs. S3) is swappable without touching callers.
type Driver interface {
	// Upload writes an object under the given key
	Upload(ctx context.Context, key string, r io.Reader) error

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// SignedURL returns a time-limited URL granting read access to the object
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Exists checks whether an object is present
	Exists(ctx context.Context, key string) (bool, error)

	// Open returns a reader over the object's contents
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Config holds storage configuration
type Config struct {
	Driver string // local, s3

	// Local driver
	BasePath  string
	URLSecret string

	// AWS S3
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	AWSBucket          string
}
