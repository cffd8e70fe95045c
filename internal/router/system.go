package router

import (
	"github.com/deppfellow/go-parameters/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that describe the service rather
// than answer queries.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/docs/params.json", h.OpenAPI.ServeParameters)
}
