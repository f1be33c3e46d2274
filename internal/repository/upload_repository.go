package repository

import (
	"context"
	"time"

	"github.com/ashestree87/socialize/internal/domain"
)

// UploadWithPlatform is an upload row joined with its target platform
type UploadWithPlatform struct {
	domain.ContentUpload
	PlatformName string
	PlatformType domain.PlatformType
}

// UploadFilter narrows upload listings
type UploadFilter struct {
	Status           domain.UploadStatus
	SocialPlatformID string
}

// UploadRepository defines the interface for content upload data access
type UploadRepository interface {
	// Create creates a new upload record
	Create(ctx context.Context, upload *domain.ContentUpload) error
	// GetByID retrieves an upload by ID
	GetByID(ctx context.Context, id string) (*domain.ContentUpload, error)
	// List retrieves a user's uploads joined with platform info
	List(ctx context.Context, userID string, page, limit int, filter UploadFilter) ([]*UploadWithPlatform, int, error)
	// ListByPlatform retrieves every upload targeting a platform
	ListByPlatform(ctx context.Context, platformID string) ([]*domain.ContentUpload, error)
	// Update updates an upload record
	Update(ctx context.Context, upload *domain.ContentUpload) error
	// Delete removes an upload record
	Delete(ctx context.Context, id string) error
	// ClaimForPublish atomically moves a pending upload to processing.
	// It returns false when the upload is missing or not pending, so
	// concurrent claimers see exactly one winner.
	ClaimForPublish(ctx context.Context, id string) (bool, error)
	// MarkPublished finalizes a processing upload as published
	MarkPublished(ctx context.Context, id, externalPostID string, publishedAt time.Time) error
	// MarkFailed finalizes a processing upload as failed with a reason
	MarkFailed(ctx context.Context, id, reason string) error
}
