package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ashestree87/socialize/internal/domain"
	"github.com/ashestree87/socialize/internal/dto"
	"github.com/ashestree87/socialize/internal/service"
	"github.com/ashestree87/socialize/pkg/middleware"
	"github.com/ashestree87/socialize/pkg/response"
)

// multipartOverhead covers form field framing beyond the file itself
const multipartOverhead = 1 << 20

// UploadHandler handles content upload HTTP requests
type UploadHandler struct {
	uploadService service.UploadService
	maxFileSize   int64
}

// NewUploadHandler creates a new UploadHandler. maxFileSize bounds the
// request body so oversize uploads are cut off at the wire.
func NewUploadHandler(uploadService service.UploadService, maxFileSize int64) *UploadHandler {
	if maxFileSize <= 0 {
		maxFileSize = service.DefaultUploadConfig().MaxFileSize
	}
	return &UploadHandler{uploadService: uploadService, maxFileSize: maxFileSize}
}

// isBodyTooLarge reports whether err came from the MaxBytesReader cap.
// Multipart parsing does not always preserve the typed error, so the
// message is checked as well.
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

// hasRole reports whether the token carries the given role slug
func hasRole(c *gin.Context, slug string) bool {
	roles, ok := middleware.GetRoles(c)
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == slug {
			return true
		}
	}
	return false
}

// userID pulls the caller's identity from the token
func userID(c *gin.Context) (string, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized(""))
		return "", false
	}
	return id, true
}

// Create handles a multipart file upload
// POST /api/v1/content-uploads
func (h *UploadHandler) Create(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize+multipartOverhead)

	var req dto.CreateUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		if isBodyTooLarge(err) {
			c.JSON(response.GetHTTPStatus(response.ErrCodeValidationFailed), response.ValidationFailed(map[string]string{"file": "File exceeds the maximum allowed size"}))
			return
		}
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			c.JSON(response.GetHTTPStatus(response.ErrCodeValidationFailed), response.ValidationFailed(map[string]string{"file": "File exceeds the maximum allowed size"}))
			return
		}
		c.JSON(response.GetHTTPStatus(response.ErrCodeValidationFailed), response.ValidationFailed(map[string]string{"file": "A file is required"}))
		return
	}

	var metadata map[string]interface{}
	if req.Metadata != "" {
		if err := json.Unmarshal([]byte(req.Metadata), &metadata); err != nil {
			c.JSON(response.GetHTTPStatus(response.ErrCodeValidationFailed), response.ValidationFailed(map[string]string{"metadata": "Metadata must be a JSON object"}))
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}
	defer file.Close()

	result, err := h.uploadService.Create(c.Request.Context(), user, &service.CreateUploadParams{
		SocialPlatformID: req.SocialPlatformID,
		FileName:         fileHeader.Filename,
		FileType:         fileHeader.Header.Get("Content-Type"),
		FileSize:         fileHeader.Size,
		Metadata:         metadata,
		Content:          file,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooLarge):
			c.JSON(response.GetHTTPStatus(response.ErrCodeValidationFailed), response.ValidationFailed(map[string]string{"file": "File exceeds the maximum allowed size"}))
		case errors.Is(err, service.ErrPlatformNotFound):
			c.JSON(response.GetHTTPStatus(response.ErrCodeValidationFailed), response.ValidationFailed(map[string]string{"social_platform_id": "Social platform not found"}))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}

// GetByID handles retrieving an upload by ID
// GET /api/v1/content-uploads/:id
func (h *UploadHandler) GetByID(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	result, err := h.uploadService.GetByID(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// List handles retrieving the user's uploads
// GET /api/v1/content-uploads
func (h *UploadHandler) List(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	var query dto.ListUploadsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	// Admins may inspect another user's uploads
	owner := user
	if query.UserID != "" && query.UserID != user {
		if !hasRole(c, domain.RoleSlugAdmin) {
			c.JSON(http.StatusForbidden, response.Forbidden("Only admins can list other users' uploads"))
			return
		}
		owner = query.UserID
	}

	result, err := h.uploadService.List(c.Request.Context(), owner, &query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Update handles upload update
// PUT /api/v1/content-uploads/:id
func (h *UploadHandler) Update(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	var req dto.UpdateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	result, err := h.uploadService.Update(c.Request.Context(), user, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatusTransition) {
			c.JSON(response.GetHTTPStatus(response.ErrCodeValidationFailed), response.ValidationFailed(map[string]string{"status": err.Error()}))
			return
		}
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Delete handles upload deletion
// DELETE /api/v1/content-uploads/:id
func (h *UploadHandler) Delete(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	if err := h.uploadService.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrStorageCleanup) {
			c.JSON(response.GetHTTPStatus(response.ErrCodeStorageError), response.InternalError("Failed to delete the stored file"))
			return
		}
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(nil, "Content upload deleted successfully"))
}

// Download handles issuing a time-limited download link
// GET /api/v1/content-uploads/:id/download
func (h *UploadHandler) Download(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	result, err := h.uploadService.DownloadURL(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Publish handles queueing an upload for publication
// POST /api/v1/content-uploads/:id/publish
func (h *UploadHandler) Publish(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	result, err := h.uploadService.Publish(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadNotPending):
			c.JSON(response.GetHTTPStatus(response.ErrCodeValidationFailed), response.ValidationFailed(map[string]string{"status": "Only pending uploads can be published"}))
		case errors.Is(err, service.ErrPlatformDisabled):
			c.JSON(response.GetHTTPStatus(response.ErrCodeValidationFailed), response.ValidationFailed(map[string]string{"social_platform_id": "Social platform is disabled"}))
		default:
			h.writeError(c, err)
		}
		return
	}

	c.JSON(http.StatusAccepted, response.SuccessWithMessage(result, "Publication queued"))
}

// writeError maps common upload errors to HTTP responses
func (h *UploadHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUploadNotFound):
		c.JSON(http.StatusNotFound, response.NotFound("Content upload not found"))
	case errors.Is(err, service.ErrUploadAccessDenied):
		c.JSON(http.StatusForbidden, response.Forbidden("You do not own this content upload"))
	case errors.Is(err, service.ErrPlatformNotFound):
		c.JSON(http.StatusNotFound, response.NotFound("Social platform not found"))
	default:
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
	}
}
