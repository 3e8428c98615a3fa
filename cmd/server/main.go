package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reshetovitsme/channel-telltale/internal/di"
	"github.com/reshetovitsme/channel-telltale/internal/shared/config"
	"github.com/reshetovitsme/channel-telltale/internal/shared/logging"
	httpServer "github.com/reshetovitsme/channel-telltale/internal/transport/http"
	"github.com/samber/do/v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	injector, err := di.Setup(logger, func() (*config.Config, error) { return cfg, nil })
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		os.Exit(1)
	}

	server, err := do.Invoke[*httpServer.Server](injector)
	if err != nil {
		slog.Error("Failed to build HTTP server", "error", err)
		os.Exit(1)
	}

	slog.Info("Application started",
		"port", cfg.HTTPPort,
		"app_env", cfg.AppEnv,
		"destinations", len(cfg.Routing),
		"photo_dialog", cfg.ImageSearchEnabled(),
		"april_fools", cfg.AprilFoolsEnabled,
		"telegram_mirror", cfg.MirrorEnabled(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down...")
	case err := <-errCh:
		if err != nil {
			slog.Error("HTTP server stopped", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := di.Shutdown(shutdownCtx, injector); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}
}
