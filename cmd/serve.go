package cmd

import (
	"github.com/spf13/cobra"

	"raccoon/internal/app"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the raccoon HTTP server and the optional schedule",
		Long: `Starts the HTTP trigger surface of raccoon:

  POST /run       start a full pass in the background
  POST /dry-run   report how many actions a pass would take
  GET  /plan      report every action a pass would take
  GET  /healthz   liveness
  GET  /metrics   Prometheus metrics

When schedule is set in config.yaml, passes also run on that cron
schedule. Retention and pacing changes to config.yaml are picked up
without a restart.

The server stops on SIGINT or SIGTERM after in-flight requests finish.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := bootstrap(cmd, app.ModeServe)
			if err != nil {
				return err
			}
			return application.Serve(commandContext(cmd))
		},
	}
}
