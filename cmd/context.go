package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	rctx "raccoon/internal/context"
	"raccoon/internal/formatting"
)

// newContextStorage opens contexts.yaml. Tests replace it.
var newContextStorage = rctx.NewStorage

func newContextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Manage named raccoon servers for 'raccoon trigger'",
		Long: `Contexts are named raccoon server endpoints stored in
~/.config/raccoon/contexts.yaml. 'raccoon trigger' uses the current
context unless --endpoint or --context is given.`,
		Args: cobra.NoArgs,
	}

	var output string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List contexts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := newPrinter(cmd, output)
			if err != nil {
				return err
			}
			storage, err := newContextStorage()
			if err != nil {
				return err
			}
			f, err := storage.Load()
			if err != nil {
				return err
			}
			return printer.PrintContexts(f.Contexts, f.CurrentContext)
		},
	}
	addOutputFlag(list, &output)

	var contextOutput string
	add := &cobra.Command{
		Use:   "add NAME ENDPOINT",
		Short: "Add a context",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if contextOutput != "" {
				if _, err := formatting.ParseFormat(contextOutput); err != nil {
					return err
				}
			}
			storage, err := newContextStorage()
			if err != nil {
				return err
			}
			if err := storage.Add(rctx.Context{Name: args[0], Endpoint: args[1], Output: contextOutput}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Context %q added\n", args[0])
			return nil
		},
	}
	add.Flags().StringVar(&contextOutput, "output", "", "Default output format for this context")

	use := &cobra.Command{
		Use:   "use NAME",
		Short: "Set the current context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, err := newContextStorage()
			if err != nil {
				return err
			}
			if err := storage.Use(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Switched to context %q\n", args[0])
			return nil
		},
	}

	remove := &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a context",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, err := newContextStorage()
			if err != nil {
				return err
			}
			if err := storage.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Context %q deleted\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, use, remove)
	return cmd
}
