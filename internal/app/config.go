package app

import (
	"io"

	"raccoon/internal/config"
)

// Mode selects what the application does once bootstrapped.
type Mode string

const (
	// ModeServe runs the HTTP trigger surface and the optional schedule.
	ModeServe Mode = "serve"
	// ModeRun performs one full pass and exits.
	ModeRun Mode = "run"
	// ModeDryRun computes the plan counts and exits.
	ModeDryRun Mode = "dry-run"
	// ModePlan computes the full plan and exits.
	ModePlan Mode = "plan"
)

// publishes reports whether the mode may notify the tracking service.
func (m Mode) publishes() bool {
	return m == ModeServe || m == ModeRun
}

// Config holds the application configuration
type Config struct {
	Mode Mode

	// Custom configuration path (optional)
	ConfigPath string

	// LogLevel and LogFormat override the logging section of config.yaml
	// when non-empty.
	LogLevel  string
	LogFormat string

	// LogOutput defaults to os.Stderr so that command output on stdout
	// stays machine readable.
	LogOutput io.Writer

	// RaccoonConfig skips loading config.yaml when set.
	RaccoonConfig *config.RaccoonConfig
}

// NewConfig creates a new application configuration
func NewConfig(mode Mode, configPath, logLevel, logFormat string) *Config {
	return &Config{
		Mode:       mode,
		ConfigPath: configPath,
		LogLevel:   logLevel,
		LogFormat:  logFormat,
	}
}
