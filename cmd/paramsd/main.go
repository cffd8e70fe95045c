// Command paramsd serves the query parameter validator over HTTP.
//
// Configuration comes from PARAMS_* environment variables (see package
// config). With no parameters declared, the allow-list is a single uint16
// "id":
//
//	curl 'localhost:8080/?id=42'
//	id as an u_int16_t: 42
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/go-parameters/internal/config"
	"github.com/deppfellow/go-parameters/internal/handler"
	"github.com/deppfellow/go-parameters/internal/logger"
	"github.com/deppfellow/go-parameters/internal/router"
	"github.com/deppfellow/go-parameters/internal/server"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootstrap := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootstrap.Fatal().Err(err).Msg("failed to load config")
	}

	// srv.Shutdown flushes the New Relic application.
	loggerService := logger.NewLoggerService(cfg.Observability)

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	h := handler.NewHandlers(srv)
	r := router.NewRouter(srv, h)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("failed to start server")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
