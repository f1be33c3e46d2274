package dto

import (
	"fmt"

	"github.com/ashestree87/socialize/internal/domain"
)

// CreateRoleRequest represents request to create a new role. The slug
// is derived from the name server-side.
type CreateRoleRequest struct {
	Name        string          `json:"name" binding:"required,min=2,max=255"`
	Description string          `json:"description" binding:"omitempty,max=1000"`
	Permissions map[string]bool `json:"permissions" binding:"omitempty"`
}

// ValidatePermissions rejects unknown capability names
func (r *CreateRoleRequest) ValidatePermissions() (bool, string) {
	return validateCapabilities(r.Permissions)
}

// UpdateRoleRequest represents request to update role information
type UpdateRoleRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=2,max=255"`
	Description *string          `json:"description" binding:"omitempty,max=1000"`
	Permissions *map[string]bool `json:"permissions" binding:"omitempty"`
}

// Validate validates that at least one field is provided for update
func (r *UpdateRoleRequest) Validate() (bool, string) {
	if r.Name == nil && r.Description == nil && r.Permissions == nil {
		return false, "At least one field must be provided for update"
	}
	if r.Permissions != nil {
		return validateCapabilities(*r.Permissions)
	}
	return true, ""
}

func validateCapabilities(perms map[string]bool) (bool, string) {
	for name := range perms {
		if !domain.Capability(name).IsValid() {
			return false, fmt.Sprintf("Unknown capability: %s", name)
		}
	}
	return true, ""
}

// AssignRoleRequest represents request to grant or revoke a role
type AssignRoleRequest struct {
	RoleID string `json:"role_id" binding:"required,uuid"`
	UserID string `json:"user_id" binding:"required,uuid"`
}

// RoleResponse represents role data in response
type RoleResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description,omitempty"`
	Permissions map[string]bool `json:"permissions"`
	IsSystem    bool            `json:"is_system"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// ListRolesResponse represents the full role catalogue
type ListRolesResponse struct {
	Roles      []RoleResponse `json:"roles"`
	TotalCount int            `json:"total_count"`
}
