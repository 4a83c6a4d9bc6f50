package cmd

import (
	"github.com/spf13/cobra"

	"raccoon/internal/app"
)

func newRunCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one full cleanup pass and exit",
		Long: `Runs one full pass in the foreground: notifies the tracking service
about diverged runs, then deletes stale run pods and ConfigMaps.

The command exits with code 2 when the pass stops before applying every
operation, and 3 when the registry or cluster data is inconsistent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := newPrinter(cmd, output)
			if err != nil {
				return err
			}
			application, err := bootstrap(cmd, app.ModeRun)
			if err != nil {
				return err
			}

			result, err := application.RunPass(commandContext(cmd))
			if err != nil {
				return err
			}
			if err := printer.PrintResult(result); err != nil {
				return err
			}
			if !result.Success {
				return &IncompletePassError{Result: result}
			}
			return nil
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}
