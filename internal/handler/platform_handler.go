package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashestree87/socialize/internal/dto"
	"github.com/ashestree87/socialize/internal/service"
	"github.com/ashestree87/socialize/pkg/middleware"
	"github.com/ashestree87/socialize/pkg/response"
)

// PlatformHandler handles social platform HTTP requests
type PlatformHandler struct {
	platformService service.PlatformService
}

// NewPlatformHandler creates a new PlatformHandler
func NewPlatformHandler(platformService service.PlatformService) *PlatformHandler {
	return &PlatformHandler{platformService: platformService}
}

// tenantID pulls the caller's tenant from the token
func tenantID(c *gin.Context) (string, bool) {
	id, ok := middleware.GetTenantID(c)
	if !ok || id == "" {
		c.JSON(http.StatusForbidden, response.Forbidden("No tenant associated with this account"))
		return "", false
	}
	return id, true
}

// Create handles connecting a platform account
// POST /api/v1/social-platforms
func (h *PlatformHandler) Create(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	var req dto.CreatePlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.platformService.Create(c.Request.Context(), tenant, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}

// GetByID handles retrieving a platform by ID
// GET /api/v1/social-platforms/:id
func (h *PlatformHandler) GetByID(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	result, err := h.platformService.GetByID(c.Request.Context(), tenant, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPlatformNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Social platform not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// List handles retrieving the tenant's platforms
// GET /api/v1/social-platforms
func (h *PlatformHandler) List(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	var query dto.ListPlatformsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.platformService.List(c.Request.Context(), tenant, &query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Update handles platform update
// PUT /api/v1/social-platforms/:id
func (h *PlatformHandler) Update(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	var req dto.UpdatePlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	result, err := h.platformService.Update(c.Request.Context(), tenant, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrPlatformNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Social platform not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Delete handles disconnecting a platform
// DELETE /api/v1/social-platforms/:id
func (h *PlatformHandler) Delete(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	if err := h.platformService.Delete(c.Request.Context(), tenant, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrPlatformNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Social platform not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(nil, "Social platform disconnected successfully"))
}
