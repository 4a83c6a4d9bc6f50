package cmd

import (
	"github.com/spf13/cobra"

	"raccoon/internal/cli"
	"raccoon/internal/formatting"
)

type triggerOptions struct {
	endpoint    string
	contextName string
	output      string
	quiet       bool
}

// newTriggerCmd drives a running 'raccoon serve' instead of the clusters.
func newTriggerCmd() *cobra.Command {
	opts := &triggerOptions{}

	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Drive a running raccoon server",
		Long: `Sends requests to a running 'raccoon serve'. No configuration file or
cluster access is needed on this side.

The server is chosen from --endpoint, then --context, then the
RACCOON_CONTEXT environment variable, then the current context (see
'raccoon context'), and finally ` + cli.DefaultEndpoint + `.`,
		Args: cobra.NoArgs,
	}
	cmd.PersistentFlags().StringVar(&opts.endpoint, "endpoint", "", "Base URL of the raccoon server")
	cmd.PersistentFlags().StringVar(&opts.contextName, "context", "", "Named server from contexts.yaml")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", string(formatting.FormatTable), "Output format: table, json or yaml")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "Hide the progress spinner")

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Start a full pass on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, printer, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			resp, err := client.Run(commandContext(cmd))
			if err != nil {
				return err
			}
			return printer.PrintRunStarted(resp)
		},
	})

	var fullPlan bool
	dryRun := &cobra.Command{
		Use:   "dry-run",
		Short: "Ask the server what a pass would do",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, printer, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			if fullPlan {
				plan, err := client.Plan(ctx)
				if err != nil {
					return err
				}
				return printer.PrintPlan(plan)
			}
			summary, err := client.DryRun(ctx)
			if err != nil {
				return err
			}
			return printer.PrintDryRun(summary)
		},
	}
	dryRun.Flags().BoolVar(&fullPlan, "plan", false, "Print every planned action instead of the counts")
	cmd.AddCommand(dryRun)

	return cmd
}

// setup resolves the server and the output format. A context's output
// setting applies unless -o was given.
func (o *triggerOptions) setup(cmd *cobra.Command) (*cli.TriggerClient, *formatting.Printer, error) {
	storage, err := newContextStorage()
	if err != nil {
		return nil, nil, err
	}
	selection, err := storage.Resolve(o.endpoint, o.contextName, cli.DefaultEndpoint)
	if err != nil {
		return nil, nil, err
	}

	output := o.output
	if selection.Output != "" && !cmd.Flags().Changed("output") {
		output = selection.Output
	}
	printer, err := newPrinter(cmd, output)
	if err != nil {
		return nil, nil, err
	}

	client := cli.NewTriggerClient(selection.Endpoint, cli.TriggerOptions{
		Quiet:         o.quiet,
		SpinnerOutput: cmd.ErrOrStderr(),
	})
	return client, printer, nil
}
