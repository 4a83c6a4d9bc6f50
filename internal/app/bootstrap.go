package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"raccoon/internal/config"
	"raccoon/internal/reconciler"
	"raccoon/pkg/logging"
)

// Application represents the main application structure that bootstraps and
// runs raccoon.
//
// The Application follows a two-phase initialization pattern:
//  1. Bootstrap phase: load configuration, initialize logging, build services
//  2. Execution phase: one pass (run, dry-run, plan) or the long-running server
//
// Example usage:
//
//	cfg := app.NewConfig(app.ModeDryRun, "", "", "")
//	application, err := app.NewApplication(ctx, cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	summary, err := application.DryRun(ctx)
type Application struct {
	config   *Config
	settings config.RaccoonConfig
	services *Services
}

// NewApplication loads the configuration, initializes logging and builds
// every collaborator. It fails when a collaborator endpoint required by the
// selected mode is missing.
func NewApplication(ctx context.Context, cfg *Config) (*Application, error) {
	output := cfg.LogOutput
	if output == nil {
		output = os.Stderr
	}

	// Log at the requested level while the configuration loads.
	bootLevel, err := logging.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logging.InitForCLI(bootLevel, output)

	settings, err := loadSettings(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load raccoon configuration")
		return nil, err
	}

	if err := initLogging(settings, output); err != nil {
		return nil, err
	}

	if err := config.RequireEndpoints(settings, cfg.Mode.publishes()); err != nil {
		return nil, fmt.Errorf("incomplete configuration for %s: %w", cfg.Mode, err)
	}

	services, err := InitializeServices(ctx, &settings)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return newApplication(cfg, settings, services), nil
}

func newApplication(cfg *Config, settings config.RaccoonConfig, services *Services) *Application {
	return &Application{
		config:   cfg,
		settings: settings,
		services: services,
	}
}

// loadSettings returns the pre-populated configuration or loads config.yaml,
// then applies the command line log overrides.
func loadSettings(cfg *Config) (config.RaccoonConfig, error) {
	var settings config.RaccoonConfig
	if cfg.RaccoonConfig != nil {
		settings = *cfg.RaccoonConfig
	} else {
		if cfg.ConfigPath == "" {
			path, err := config.GetDefaultConfigPath()
			if err != nil {
				return config.RaccoonConfig{}, err
			}
			cfg.ConfigPath = path
		}
		loaded, err := config.LoadConfig(cfg.ConfigPath)
		if err != nil {
			return config.RaccoonConfig{}, fmt.Errorf("failed to load raccoon configuration from %s: %w", cfg.ConfigPath, err)
		}
		settings = loaded
	}

	if cfg.LogLevel != "" {
		settings.Logging.Level = cfg.LogLevel
	}
	if cfg.LogFormat != "" {
		settings.Logging.Format = cfg.LogFormat
	}
	return settings, nil
}

func initLogging(settings config.RaccoonConfig, output io.Writer) error {
	level, err := logging.ParseLogLevel(settings.Logging.Level)
	if err != nil {
		return err
	}
	format := logging.Format(settings.Logging.Format)
	if format != logging.FormatJSON && format != logging.FormatText {
		return fmt.Errorf("unknown log format %q", settings.Logging.Format)
	}
	logging.Init(level, format, output)
	return nil
}

// Settings returns the effective configuration.
func (a *Application) Settings() config.RaccoonConfig {
	return a.settings
}

// Services returns the wired collaborators.
func (a *Application) Services() *Services {
	return a.services
}

// RunPass performs one full pass in the foreground.
func (a *Application) RunPass(ctx context.Context) (reconciler.Result, error) {
	return a.services.Manager.Run(ctx)
}

// DryRun computes the plan counts without side effects.
func (a *Application) DryRun(ctx context.Context) (reconciler.DryRunSummary, error) {
	return a.services.Manager.DryRun(ctx)
}

// Plan computes the full plan without side effects.
func (a *Application) Plan(ctx context.Context) (*reconciler.Plan, error) {
	return a.services.Manager.Plan(ctx)
}

// Serve runs the HTTP trigger surface until ctx is cancelled or a
// termination signal arrives.
func (a *Application) Serve(ctx context.Context) error {
	return runServeMode(ctx, a.config, a.settings, a.services)
}
