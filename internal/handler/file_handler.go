package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ashestree87/socialize/internal/storage"
	"github.com/ashestree87/socialize/pkg/response"
)

// FileHandler serves locally stored files behind signed URLs. Only
// wired when the local storage driver is active; S3 downloads go to
// presigned object URLs directly.
type FileHandler struct {
	driver *storage.LocalDriver
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(driver *storage.LocalDriver) *FileHandler {
	return &FileHandler{driver: driver}
}

// Download streams a stored file after verifying the URL signature
// GET /files/*key
func (h *FileHandler) Download(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("File key is required"))
		return
	}

	expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
	if err != nil {
		c.JSON(http.StatusForbidden, response.Forbidden("Invalid or missing expiry"))
		return
	}

	if !h.driver.Verify(key, expires, c.Query("signature")) {
		c.JSON(http.StatusForbidden, response.Forbidden("Invalid or expired signature"))
		return
	}

	file, err := h.driver.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("File not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}
	defer file.Close()

	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
