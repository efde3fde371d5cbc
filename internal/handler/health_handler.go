package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ministore_api/internal/utils"
)

var startTime = time.Now()

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler provides the health endpoint.
type HealthHandler struct {
	checks map[string]HealthCheck
}

// NewHealthHandler creates a HealthHandler. checks maps a dependency name to
// its check; "database" is expected to be present.
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// GetHealth handles GET /api/health
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	deps := gin.H{}
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			log.Warn().Err(err).Str("dependency", name).Msg("Health check failed")
			deps[name] = "disconnected"
			healthy = false
			continue
		}
		deps[name] = "connected"
	}

	data := gin.H{
		"status":       "healthy",
		"uptime":       int(time.Since(startTime).Seconds()),
		"dependencies": deps,
	}
	if !healthy {
		data["status"] = "degraded"
		c.JSON(503, utils.Response{
			Success: false,
			Code:    503,
			Message: "Servicio degradado",
			Data:    data,
			Meta:    utils.Meta{RequestID: utils.RequestID(c), Timestamp: time.Now().Format(time.RFC3339)},
		})
		return
	}

	utils.Success(c, 200, "Servicio activo", data)
}
