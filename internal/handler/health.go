package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/go-parameters/internal/middleware"
	"github.com/deppfellow/go-parameters/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler serves the status endpoint used by load balancers and
// uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth reports overall status, environment, uptime and whether the
// parameter schema and New Relic are in place.
//
// It returns 503 when the schema is missing, since every query endpoint
// would fail without it.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := map[string]interface{}{}
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"uptime":      time.Since(h.server.StartedAt).Round(time.Second).String(),
		"checks":      checks,
	}

	isHealthy := true

	if h.server.Schema == nil {
		isHealthy = false
		checks["schema"] = map[string]interface{}{
			"status": "unhealthy",
			"error":  "parameter schema not loaded",
		}
		logger.Error().Msg("schema health check failed")
	} else {
		checks["schema"] = map[string]interface{}{
			"status":   "healthy",
			"declared": h.server.Schema.Len(),
		}
	}

	newRelicStatus := "disabled"
	if h.server.LoggerService.GetApplication() != nil {
		newRelicStatus = "enabled"
	}
	checks["new_relic"] = map[string]interface{}{
		"status": newRelicStatus,
	}

	if !isHealthy {
		response["status"] = "unhealthy"
		logger.Warn().Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
