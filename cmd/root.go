package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"raccoon/internal/api"
	"raccoon/internal/app"
	"raccoon/internal/cli"
	"raccoon/internal/formatting"
	"raccoon/internal/reconciler"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeIncomplete indicates a pass that stopped before applying every operation.
	ExitCodeIncomplete = 2
	// ExitCodeInvariantViolation indicates corrupted registry or cluster data.
	ExitCodeInvariantViolation = 3
	// ExitCodeUnreachable indicates that a remote raccoon server could not be reached.
	ExitCodeUnreachable = 4
)

var (
	// configPath overrides the configuration directory (default ~/.config/raccoon).
	configPath string
	// logLevel and logFormat override the logging section of config.yaml.
	logLevel  string
	logFormat string
)

// rootCmd represents the base command for the raccoon application.
var rootCmd = &cobra.Command{
	Use:   "raccoon",
	Short: "Clean up after workflow runs and fix their recorded state",
	Long: `raccoon reconciles the run registry with the Kubernetes clusters that
execute workflow runs. It notifies the tracking service about runs whose
recorded state diverged from their pods, and deletes run pods and
ConfigMaps older than the configured retention.

Passes can be run once from the command line, or served over HTTP with an
optional schedule.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits with a code matching the error.
// Termination signals cancel the command context.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "raccoon version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// IncompletePassError reports a pass that aborted while applying its plan.
type IncompletePassError struct {
	Result reconciler.Result
}

func (e *IncompletePassError) Error() string {
	return fmt.Sprintf("pass stopped in phase %s after %d/%d operation(s): %v",
		e.Result.FailedPhase, e.Result.Applied, e.Result.Total, e.Result.Err)
}

func (e *IncompletePassError) Unwrap() error {
	return e.Result.Err
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	if api.IsInvariantViolation(err) {
		return ExitCodeInvariantViolation
	}

	var serverErr *cli.ServerError
	if errors.As(err, &serverErr) && serverErr.StatusCode == 409 {
		return ExitCodeInvariantViolation
	}

	var incomplete *IncompletePassError
	if errors.As(err, &incomplete) {
		return ExitCodeIncomplete
	}

	var connErr *cli.ConnectionError
	if errors.As(err, &connErr) {
		return ExitCodeUnreachable
	}

	return ExitCodeError
}

// passRunner is the part of app.Application the commands drive.
type passRunner interface {
	RunPass(ctx context.Context) (reconciler.Result, error)
	DryRun(ctx context.Context) (reconciler.DryRunSummary, error)
	Plan(ctx context.Context) (*reconciler.Plan, error)
	Serve(ctx context.Context) error
}

// newApplication builds the application for a command. Tests replace it.
var newApplication = func(ctx context.Context, cfg *app.Config) (passRunner, error) {
	return app.NewApplication(ctx, cfg)
}

func bootstrap(cmd *cobra.Command, mode app.Mode) (passRunner, error) {
	cfg := app.NewConfig(mode, configPath, logLevel, logFormat)
	cfg.LogOutput = cmd.ErrOrStderr()

	application, err := newApplication(commandContext(cmd), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return application, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// addOutputFlag registers -o/--output on a command.
func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", string(formatting.FormatTable), "Output format: table, json or yaml")
}

func newPrinter(cmd *cobra.Command, output string) (*formatting.Printer, error) {
	format, err := formatting.ParseFormat(output)
	if err != nil {
		return nil, err
	}
	return formatting.NewPrinter(cmd.OutOrStdout(), format), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", "", "Configuration directory containing config.yaml (default ~/.config/raccoon)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json (overrides config.yaml)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newDryRunCmd())
	rootCmd.AddCommand(newTriggerCmd())
	rootCmd.AddCommand(newContextCmd())
}
