// Package server defines the application container.
//
// It owns the lifecycle of:
//   - configuration
//   - logger and the optional New Relic service
//   - the process-wide parameter schema
//   - the http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/go-parameters/internal/config"
	"github.com/deppfellow/go-parameters/internal/params"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/go-parameters/internal/logger"
)

// Server holds the shared resources every handler and middleware needs.
// It is not the HTTP server itself.
type Server struct {
	Config *config.Config
	Logger *zerolog.Logger

	// LoggerService may hold a New Relic application; it is never nil.
	LoggerService *loggerPkg.LoggerService

	// Schema is the allow-list built from Config.Params. It is read-only
	// after New returns and shared by all requests.
	Schema *params.Schema

	// StartedAt is reported by the status endpoint.
	StartedAt time.Time

	httpServer *http.Server
}

// New builds the container and the parameter schema.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	schema, err := cfg.Schema()
	if err != nil {
		return nil, fmt.Errorf("failed to build parameter schema: %w", err)
	}

	if loggerService == nil {
		loggerService = &loggerPkg.LoggerService{}
	}

	for _, f := range schema.Fields() {
		logger.Debug().
			Str("param", f.Name).
			Str("kind", f.Kind.String()).
			Str("rule", f.Rule).
			Msg("declared parameter")
	}

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Schema:        schema,
		StartedAt:     time.Now().UTC(),
	}, nil
}

// SetupHTTPServer configures the net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Int("params", s.Schema.Len()).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections, waits for in-flight requests until
// ctx expires and flushes New Relic.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	s.LoggerService.Shutdown()
	return nil
}
