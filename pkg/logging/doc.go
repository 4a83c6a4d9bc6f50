// Package logging provides the structured logging system for raccoon.
//
// This package is built on Go's standard slog package and exposes a small
// printf-style API tagged with a subsystem name.
//
// # Log Levels
//   - **Debug**: Detailed information for debugging and development
//   - **Info**: General informational messages about application operation
//   - **Warn**: Warning messages that indicate potential issues
//   - **Error**: Error messages for failures and exceptional conditions
//
// # Usage Examples
//
//	import "raccoon/pkg/logging"
//
//	// Initialize with Info level logging to stdout
//	logging.InitForCLI(logging.LevelInfo, os.Stdout)
//
//	logging.Info("Bootstrap", "Application starting up")
//	logging.Debug("Config", "Loaded configuration from %s", configPath)
//	logging.Warn("Inventory", "Cluster %s returned no pods", name)
//	logging.Error("Executor", err, "Pass %s aborted", passID)
//
// # Output Formats
//
// FormatText renders through tint, with colour only when the output is a
// terminal. FormatJSON writes one JSON object per line for log aggregation.
//
// # Subsystem Organization
//
//   - **Bootstrap**: Application initialization and startup
//   - **Config**: Configuration loading, validation and reloads
//   - **RDPC**: Run registry queries
//   - **Inventory**: Cluster listing, log fetching and deletion
//   - **Reconciler**: Plan computation
//   - **Executor**: Plan application
//   - **Weblog**: Event publishing
//   - **Server**: HTTP trigger surface
//   - **Metrics**: Pass outcome accounting
//   - **CLI**: Remote trigger client
//
// # Controller-Runtime Integration
//
// Init also installs a logr bridge as the controller-runtime logger so that
// Kubernetes client logs go through the same handler.
package logging
