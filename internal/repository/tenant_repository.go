package repository

import (
	"context"

	"github.com/ashestree87/socialize/internal/domain"
)

// TenantRepository defines the interface for tenant data access
type TenantRepository interface {
	// Create creates a new tenant
	Create(ctx context.Context, tenant *domain.Tenant) error
	// GetByID retrieves a tenant by ID
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	// GetByDomain retrieves a tenant by domain
	GetByDomain(ctx context.Context, domainName string) (*domain.Tenant, error)
	// List retrieves tenants with pagination and filters
	List(ctx context.Context, page, limit int, isActive *bool, search string) ([]*domain.Tenant, int, error)
	// Update updates a tenant
	Update(ctx context.Context, tenant *domain.Tenant) error
	// Delete removes a tenant
	Delete(ctx context.Context, id string) error
	// ExistsByDomain checks if a tenant other than excludeID claims the domain
	ExistsByDomain(ctx context.Context, domainName, excludeID string) (bool, error)
}
