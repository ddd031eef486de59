package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripcast-io/tripcast/internal/overlay/trip"
)

func newInvokeCommand() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "invoke <command>",
		Short: "Invoke an operator command on the overlay server",
		Long: `Invoke an operator command on the overlay server.

Danger commands must either be confirmed with --confirm or invoked a second
time while the server's confirmation window is open.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), reqTimeout)
			defer cancel()

			res, err := newAPIClient().invoke(ctx, args[0], confirm)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Feedback.Kind != trip.FeedbackNone {
				fmt.Fprintf(out, "[%s] %s\n", res.Feedback.Kind, res.Feedback.Message)
				return nil
			}

			fmt.Fprintf(out, "command %q dispatched (panel: %s)\n", args[0], res.PanelState)
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm a danger command up front.")

	return cmd
}
