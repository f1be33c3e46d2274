package repository

import (
	"context"

	"github.com/ashestree87/socialize/internal/domain"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *domain.User) error
	// GetByID retrieves a user by ID, roles included
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail retrieves a user by email, roles included
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// ExistsByEmail checks if a user exists with the given email
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
