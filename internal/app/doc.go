// Package app provides application bootstrap and lifecycle management for raccoon.
//
// # Bootstrap
//
// NewApplication performs the complete initialization sequence:
//
//  1. Temporary CLI logging at the level given on the command line
//  2. Configuration loading from --config-path or ~/.config/raccoon
//  3. Final logging setup from the merged configuration and flag overrides
//  4. Endpoint checks for the selected Mode (dry runs do not need the weblog)
//  5. InitializeServices: RDPC client, one Kubernetes inventory per cluster,
//     weblog publisher, Prometheus registry and the pass manager
//
// # Modes
//
//   - ModeRun, ModeDryRun and ModePlan perform a single foreground pass
//     through RunPass, DryRun or Plan and return its outcome to the caller.
//   - ModeServe runs the HTTP trigger surface, the optional cron schedule and
//     a configuration watcher that swaps retention and pacing on change, until
//     the context ends or SIGINT/SIGTERM arrives.
package app
