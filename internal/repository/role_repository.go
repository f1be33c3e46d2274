package repository

import (
	"context"

	"github.com/ashestree87/socialize/internal/domain"
)

// RoleRepository defines the interface for role data access
type RoleRepository interface {
	// Create creates a new role
	Create(ctx context.Context, role *domain.Role) error
	// GetByID retrieves a role by ID
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	// GetBySlug retrieves a role by slug
	GetBySlug(ctx context.Context, slug string) (*domain.Role, error)
	// List retrieves all roles
	List(ctx context.Context) ([]*domain.Role, error)
	// ListByUser retrieves the roles assigned to a user
	ListByUser(ctx context.Context, userID string) ([]*domain.Role, error)
	// Update updates a role
	Update(ctx context.Context, role *domain.Role) error
	// Delete removes a role and its user assignments
	Delete(ctx context.Context, id string) error
	// ExistsBySlug checks if a role other than excludeID claims the slug
	ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error)
	// Assign grants a role to a user. Assigning an already-held role is a no-op.
	Assign(ctx context.Context, roleID, userID string) error
	// Remove revokes a role from a user. Removing an unheld role is a no-op.
	Remove(ctx context.Context, roleID, userID string) error
}
