package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashestree87/socialize/pkg/response"
)

// HealthHandler handles liveness and readiness probes
type HealthHandler struct {
	checks map[string]func() error
}

// NewHealthHandler creates a new HealthHandler. Each named check is
// run on readiness probes.
func NewHealthHandler(checks map[string]func() error) *HealthHandler {
	if checks == nil {
		checks = make(map[string]func() error)
	}
	return &HealthHandler{checks: checks}
}

// Health handles liveness probes
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(gin.H{"status": "ok"}))
}

// Ready handles readiness probes. Any failing check flips the
// response to 503.
func (h *HealthHandler) Ready(c *gin.Context) {
	results := make(map[string]string, len(h.checks))
	healthy := true

	for name, check := range h.checks {
		if err := check(); err != nil {
			results[name] = err.Error()
			healthy = false
		} else {
			results[name] = "ok"
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, response.Error("One or more dependencies are unavailable"))
		return
	}
	c.JSON(http.StatusOK, response.Success(results))
}
