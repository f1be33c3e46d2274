package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashestree87/socialize/internal/dto"
	"github.com/ashestree87/socialize/internal/service"
	"github.com/ashestree87/socialize/pkg/response"
)

// RoleHandler handles role management HTTP requests
type RoleHandler struct {
	roleService service.RoleService
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// Create handles role creation
// POST /api/v1/roles
func (h *RoleHandler) Create(c *gin.Context) {
	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if valid, msg := req.ValidatePermissions(); !valid {
		c.JSON(response.GetHTTPStatus(response.ErrCodeValidationFailed), response.ValidationFailed(map[string]string{"permissions": msg}))
		return
	}

	result, err := h.roleService.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoleSlugTaken):
			c.JSON(response.GetHTTPStatus(response.ErrCodeConflict), response.Conflict("Role with this slug already exists"))
		case errors.Is(err, service.ErrUnknownCapability):
			c.JSON(response.GetHTTPStatus(response.ErrCodeValidationFailed), response.ValidationFailed(map[string]string{"permissions": err.Error()}))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}

// GetByID handles retrieving a role by ID
// GET /api/v1/roles/:id
func (h *RoleHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("Role ID is required"))
		return
	}

	result, err := h.roleService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Role not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// List handles retrieving all roles
// GET /api/v1/roles
func (h *RoleHandler) List(c *gin.Context) {
	result, err := h.roleService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Update handles role update
// PUT /api/v1/roles/:id
func (h *RoleHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("Role ID is required"))
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(response.GetHTTPStatus(response.ErrCodeValidationFailed), response.ValidationFailed(map[string]string{"request": msg}))
		return
	}

	result, err := h.roleService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoleNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Role not found"))
		case errors.Is(err, service.ErrRoleSlugTaken):
			c.JSON(response.GetHTTPStatus(response.ErrCodeConflict), response.Conflict("Role with this slug already exists"))
		case errors.Is(err, service.ErrUnknownCapability):
			c.JSON(response.GetHTTPStatus(response.ErrCodeValidationFailed), response.ValidationFailed(map[string]string{"permissions": err.Error()}))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Delete handles role deletion
// DELETE /api/v1/roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("Role ID is required"))
		return
	}

	if err := h.roleService.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrRoleNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Role not found"))
		case errors.Is(err, service.ErrSystemRole):
			c.JSON(http.StatusForbidden, response.Forbidden("System roles cannot be deleted"))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(nil, "Role deleted successfully"))
}

// Assign handles granting a role to a user
// POST /api/v1/roles/assign
func (h *RoleHandler) Assign(c *gin.Context) {
	h.changeAssignment(c, h.roleService.Assign, "Role assigned successfully")
}

// Remove handles revoking a role from a user
// POST /api/v1/roles/remove
func (h *RoleHandler) Remove(c *gin.Context) {
	h.changeAssignment(c, h.roleService.Remove, "Role removed successfully")
}

func (h *RoleHandler) changeAssignment(c *gin.Context, apply func(ctx context.Context, roleID, userID string) error, message string) {
	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if err := apply(c.Request.Context(), req.RoleID, req.UserID); err != nil {
		switch {
		case errors.Is(err, service.ErrRoleNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Role not found"))
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("User not found"))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(nil, message))
}
