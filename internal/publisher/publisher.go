package publisher

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ashestree87/socialize/internal/domain"
)

// ErrUnsupportedPlatform is returned when no publisher is registered
// for a platform type
var ErrUnsupportedPlatform = errors.New("unsupported platform type")

// Request carries everything a publisher needs to post an upload.
// IdempotencyKey is stable across retries of the same upload so
// integrations can dedupe.
type Request struct {
	Upload         *domain.ContentUpload
	PlatformName   string
	Credentials    map[string]string
	IdempotencyKey string
}

// Result is the outcome of a successful publication
type Result struct {
	ExternalPostID string
}

// Publisher posts an upload to one social platform
type Publisher interface {
	Publish(ctx context.Context, req *Request) (*Result, error)
}

// Registry maps platform types to their publishers
type Registry struct {
	mu         sync.RWMutex
	publishers map[domain.PlatformType]Publisher
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{publishers: make(map[domain.PlatformType]Publisher)}
}

// Register binds a publisher to a platform type, replacing any
// existing binding
func (r *Registry) Register(platformType domain.PlatformType, p Publisher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publishers[platformType] = p
}

// Get returns the publisher for a platform type
func (r *Registry) Get(platformType domain.PlatformType) (Publisher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.publishers[platformType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platformType)
	}
	return p, nil
}
