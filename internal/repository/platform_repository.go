package repository

import (
	"context"

	"github.com/ashestree87/socialize/internal/domain"
)

// PlatformRepository defines the interface for social platform data access
type PlatformRepository interface {
	// Create creates a new platform connection
	Create(ctx context.Context, platform *domain.SocialPlatform) error
	// GetByID retrieves a platform by ID
	GetByID(ctx context.Context, id string) (*domain.SocialPlatform, error)
	// List retrieves a tenant's platforms with pagination and filters
	List(ctx context.Context, tenantID string, page, limit int, platformType string, isEnabled *bool) ([]*domain.SocialPlatform, int, error)
	// Update updates a platform
	Update(ctx context.Context, platform *domain.SocialPlatform) error
	// Delete removes a platform
	Delete(ctx context.Context, id string) error
}
