package cmd

import (
	"github.com/spf13/cobra"

	"raccoon/internal/app"
)

func newDryRunCmd() *cobra.Command {
	var (
		output   string
		fullPlan bool
	)

	cmd := &cobra.Command{
		Use:   "dry-run",
		Short: "Report what a cleanup pass would do",
		Long: `Computes the plan of a pass without notifying the tracking service or
deleting anything. By default only the counts are printed; --plan prints
every run update and deletion.

The tracking service URL is not required in this mode.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := newPrinter(cmd, output)
			if err != nil {
				return err
			}
			mode := app.ModeDryRun
			if fullPlan {
				mode = app.ModePlan
			}
			application, err := bootstrap(cmd, mode)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			if fullPlan {
				plan, err := application.Plan(ctx)
				if err != nil {
					return err
				}
				return printer.PrintPlan(plan)
			}

			summary, err := application.DryRun(ctx)
			if err != nil {
				return err
			}
			return printer.PrintDryRun(summary)
		},
	}
	addOutputFlag(cmd, &output)
	cmd.Flags().BoolVar(&fullPlan, "plan", false, "Print every planned action instead of the counts")
	return cmd
}
