package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"raccoon/internal/config"
	"raccoon/internal/server"
	"raccoon/pkg/logging"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

// runServeMode runs the HTTP trigger surface, the optional cron schedule and
// the configuration watcher.
//
// Signal Handling:
//   - SIGINT (Ctrl+C): Triggers graceful shutdown
//   - SIGTERM: Triggers graceful shutdown (common in container environments)
//
// On shutdown the schedule stops, running passes are cancelled at their next
// item boundary and the server drains open requests.
func runServeMode(ctx context.Context, cfg *Config, settings config.RaccoonConfig, services *Services) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(services.Manager, server.Options{
		Host:     settings.Server.Host,
		Port:     settings.Server.Port,
		Gatherer: services.MetricsRegistry,
	})
	if err := srv.Start(); err != nil {
		logging.Error("Bootstrap", err, "Failed to start HTTP server")
		return err
	}

	if err := services.Manager.Start(); err != nil {
		shutdownServer(srv)
		return err
	}

	var watcher *config.Watcher
	if cfg.ConfigPath != "" && cfg.RaccoonConfig == nil {
		watcher = config.NewWatcher(cfg.ConfigPath, func(reloaded config.RaccoonConfig) {
			services.Manager.UpdateSettings(reloaded.Retention, pacingFrom(reloaded))
		})
		if err := watcher.Start(ctx); err != nil {
			logging.Warn("Bootstrap", "Configuration reloads disabled: %v", err)
			watcher = nil
		}
	}

	logging.Info("Bootstrap", "Raccoon is serving. Press Ctrl+C to stop.")
	<-ctx.Done()

	logging.Info("Bootstrap", "--- Shutting down ---")
	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			logging.Warn("Bootstrap", "Failed to stop configuration watcher: %v", err)
		}
	}
	shutdownServer(srv)
	services.Manager.Stop()
	return nil
}

func shutdownServer(srv *server.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Bootstrap", err, "HTTP server shutdown failed")
	}
}
