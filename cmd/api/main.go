package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pageza/apitizers/backend/config"
	"github.com/pageza/apitizers/backend/internal/api"
	"github.com/pageza/apitizers/backend/internal/cache"
	"github.com/pageza/apitizers/backend/internal/database"
	"github.com/pageza/apitizers/backend/internal/logger"
	"github.com/pageza/apitizers/backend/internal/metrics"
	"github.com/pageza/apitizers/backend/internal/router"
	"github.com/pageza/apitizers/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logg.Sync()

	if err := run(cfg, logg); err != nil {
		logg.Fatal("Server error", "error", err)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx := context.Background()

	db, err := database.Open(cfg, logg)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db, cfg.DBName, logg); err != nil {
		return err
	}

	store, err := config.NewObjectStore(ctx, cfg, logg)
	if err != nil {
		return err
	}

	deps := api.Deps{
		DB:             db,
		Store:          store,
		Metrics:        metrics.New(),
		Log:            logg,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(cfg.RedisURL, logg)
		if err != nil {
			return err
		}
		defer client.Close()
		deps.Cache = cache.NewRecipeCache(client, cfg.CacheTTL)
	} else {
		logg.Info("REDIS_URL not set, recipe cache disabled")
	}

	srv := server.New(cfg, router.SetupRouter(cfg, deps), logg)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		logg.Info("Starting server", "env", cfg.Environment, "addr", cfg.Addr())
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case sig := <-quit:
		logg.Info("Received signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logg.Info("Server stopped")
	return nil
}
