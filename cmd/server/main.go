package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sumit-fleet/fleet-booking/internal/api"
	"github.com/sumit-fleet/fleet-booking/internal/config"
	"github.com/sumit-fleet/fleet-booking/internal/logger"
)

// main serves the same routes as the API Lambda over plain HTTP for local runs
func main() {
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	logger.SetDefault(logger.NewFromString(cfg.Logging.Level))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, closeCaches, err := api.NewFromConfig(ctx, cfg)
	if err != nil {
		logger.Error("Failed to create handler", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	defer closeCaches()

	// Write timeout covers a cold geocode, two route attempts and the toll call
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Server shutdown failed: %v", err)
		}
		logger.Infof("Server on %s stopped", srv.Addr)
	}()

	logger.Info("Server listening", logger.Fields{"addr": srv.Addr})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
}
