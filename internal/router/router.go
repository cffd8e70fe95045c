// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps paths to their handlers.
package router

import (
	"net/http"

	"github.com/deppfellow/go-parameters/internal/handler"
	"github.com/deppfellow/go-parameters/internal/middleware"
	"github.com/deppfellow/go-parameters/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler
	router.IPExtractor = middlewares.Global.IPExtractor()

	// Order matters: the request ID must exist before the logger is
	// enriched, and tracing must wrap everything that can fail.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)

	base := handler.NewHandler(s)
	router.GET("/", handler.HandleText(base, nil, h.Parameters.Page, http.StatusOK))

	v1 := router.Group("/v1")
	v1.GET("/params", handler.HandleQuery(base, nil, h.Parameters.List, http.StatusOK))
	v1.GET("/params/strict", handler.HandleQuery(base, nil, h.Parameters.Strict, http.StatusOK))

	return router
}
