package main

import (
	"context"
	"courier-slot-service/internal/adapters/repositories"
	"courier-slot-service/internal/app"
	"courier-slot-service/internal/config"
	"courier-slot-service/internal/platform/logging"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// main is the application composition root.
// It wires concrete adapters (postgres, Redis, ORS) behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := logging.Setup(cfg.Environment)
	if envErr != nil {
		logger.Debug().Msg("no .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	if err := repositories.InitSchema(ctx, a.DB); err != nil {
		logger.Fatal().Err(err).Msg("schema initialization failed")
	}

	// Seed demo bookings on startup for local runs.
	if cfg.Environment == "development" {
		if _, statErr := os.Stat(cfg.SeedPath); statErr == nil {
			n, err := repositories.SeedFromJSON(ctx, a.DB, cfg.SeedPath, a.Rules.Location)
			if err != nil {
				logger.Fatal().Err(err).Msg("seeding failed")
			}
			logger.Info().Int("inserted", n).Str("path", cfg.SeedPath).Msg("seeded bookings")
		}
	}

	// Write timeout covers a cold-cache slot listing that falls back to the routing service.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
