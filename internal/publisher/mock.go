package publisher

import (
	"context"
	"errors"
	"sync"
)

// ErrMockPublishFailure is returned when a mock publisher is configured to fail
var ErrMockPublishFailure = errors.New("mock publish failure")

// MockPublisher is a configurable Publisher for tests
type MockPublisher struct {
	mu sync.Mutex
	// ShouldFail makes every publish fail
	ShouldFail bool
	// FailTimes makes the first N publishes fail, then succeed
	FailTimes int
	// FailureError overrides the returned error
	FailureError error
	// PostID is the external post ID returned on success
	PostID string

	calls    int
	requests []*Request
}

// NewMockPublisher creates a new MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{PostID: "mock-post-1"}
}

// Publish records the request and returns the configured outcome
func (p *MockPublisher) Publish(ctx context.Context, req *Request) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	p.requests = append(p.requests, req)

	fail := p.ShouldFail || p.calls <= p.FailTimes
	if fail {
		if p.FailureError != nil {
			return nil, p.FailureError
		}
		return nil, ErrMockPublishFailure
	}

	return &Result{ExternalPostID: p.PostID}, nil
}

// Calls returns how many times Publish was invoked
func (p *MockPublisher) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// LastRequest returns the most recent publish request, or nil
func (p *MockPublisher) LastRequest() *Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.requests) == 0 {
		return nil
	}
	return p.requests[len(p.requests)-1]
}
