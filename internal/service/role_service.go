package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ashestree87/socialize/internal/domain"
	"github.com/ashestree87/socialize/internal/dto"
	"github.com/ashestree87/socialize/internal/repository"
)

var (
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleSlugTaken     = errors.New("role with this slug already exists")
	ErrSystemRole        = errors.New("system roles cannot be deleted")
	ErrUnknownCapability = errors.New("unknown capability")
)

// RoleService defines the interface for role management operations
type RoleService interface {
	// Create creates a new role. The slug is derived from the name.
	Create(ctx context.Context, req *dto.CreateRoleRequest) (*dto.RoleResponse, error)
	// GetByID retrieves a role by ID
	GetByID(ctx context.Context, id string) (*dto.RoleResponse, error)
	// List retrieves all roles
	List(ctx context.Context) (*dto.ListRolesResponse, error)
	// Update updates a role. Renaming re-derives the slug.
	Update(ctx context.Context, id string, req *dto.UpdateRoleRequest) (*dto.RoleResponse, error)
	// Delete removes a non-system role and its assignments
	Delete(ctx context.Context, id string) error
	// Assign grants a role to a user
	Assign(ctx context.Context, roleID, userID string) error
	// Remove revokes a role from a user
	Remove(ctx context.Context, roleID, userID string) error
}

// roleService implements RoleService
type roleService struct {
	roleRepo repository.RoleRepository
	userRepo repository.UserRepository
}

// NewRoleService creates a new RoleService
func NewRoleService(roleRepo repository.RoleRepository, userRepo repository.UserRepository) RoleService {
	return &roleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
	}
}

// Create creates a new role. The slug is derived from the name.
func (s *roleService) Create(ctx context.Context, req *dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	permissions, err := toPermissionSet(req.Permissions)
	if err != nil {
		return nil, err
	}

	slug := domain.Slugify(req.Name)
	exists, err := s.roleRepo.ExistsBySlug(ctx, slug, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrRoleSlugTaken
	}

	now := time.Now()
	role := &domain.Role{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Permissions: permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	return toRoleResponse(role), nil
}

// GetByID retrieves a role by ID
func (s *roleService) GetByID(ctx context.Context, id string) (*dto.RoleResponse, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}
	return toRoleResponse(role), nil
}

// List retrieves all roles
func (s *roleService) List(ctx context.Context) (*dto.ListRolesResponse, error) {
	roles, err := s.roleRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.RoleResponse, 0, len(roles))
	for _, role := range roles {
		responses = append(responses, *toRoleResponse(role))
	}

	return &dto.ListRolesResponse{
		Roles:      responses,
		TotalCount: len(responses),
	}, nil
}

// Update updates a role. Renaming re-derives the slug, which must not
// collide with another role's.
func (s *roleService) Update(ctx context.Context, id string, req *dto.UpdateRoleRequest) (*dto.RoleResponse, error) {
	if valid, errMsg := req.Validate(); !valid {
		return nil, errors.New(errMsg)
	}

	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}

	if req.Name != nil && *req.Name != role.Name {
		slug := domain.Slugify(*req.Name)
		if slug != role.Slug {
			exists, err := s.roleRepo.ExistsBySlug(ctx, slug, id)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrRoleSlugTaken
			}
		}
		role.Name = *req.Name
		role.Slug = slug
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.Permissions != nil {
		permissions, err := toPermissionSet(*req.Permissions)
		if err != nil {
			return nil, err
		}
		role.Permissions = permissions
	}

	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}

	return toRoleResponse(role), nil
}

// Delete removes a non-system role and its assignments
func (s *roleService) Delete(ctx context.Context, id string) error {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role == nil {
		return ErrRoleNotFound
	}
	if role.IsSystem() {
		return ErrSystemRole
	}
	return s.roleRepo.Delete(ctx, id)
}

// Assign grants a role to a user. Assigning an already-held role
// succeeds without change.
func (s *roleService) Assign(ctx context.Context, roleID, userID string) error {
	role, user, err := s.roleAndUser(ctx, roleID, userID)
	if err != nil {
		return err
	}
	return s.roleRepo.Assign(ctx, role.ID, user.ID)
}

// Remove revokes a role from a user. Removing an unheld role succeeds
// without change.
func (s *roleService) Remove(ctx context.Context, roleID, userID string) error {
	role, user, err := s.roleAndUser(ctx, roleID, userID)
	if err != nil {
		return err
	}
	return s.roleRepo.Remove(ctx, role.ID, user.ID)
}

func (s *roleService) roleAndUser(ctx context.Context, roleID, userID string) (*domain.Role, *domain.User, error) {
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return nil, nil, err
	}
	if role == nil {
		return nil, nil, ErrRoleNotFound
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	return role, user, nil
}

// toPermissionSet validates capability names and builds a PermissionSet
func toPermissionSet(perms map[string]bool) (domain.PermissionSet, error) {
	set := make(domain.PermissionSet, len(perms))
	for name, granted := range perms {
		capability := domain.Capability(name)
		if !capability.IsValid() {
			return nil, ErrUnknownCapability
		}
		set[capability] = granted
	}
	return set, nil
}

// toRoleResponse converts domain.Role to dto.RoleResponse
func toRoleResponse(role *domain.Role) *dto.RoleResponse {
	permissions := make(map[string]bool, len(role.Permissions))
	for capability, granted := range role.Permissions {
		permissions[string(capability)] = granted
	}

	return &dto.RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Slug:        role.Slug,
		Description: role.Description,
		Permissions: permissions,
		IsSystem:    role.IsSystem(),
		CreatedAt:   role.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   role.UpdatedAt.Format(time.RFC3339),
	}
}
