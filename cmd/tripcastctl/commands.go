package main

import (
	"context"
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func newCommandsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the commands the overlay server accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), reqTimeout)
			defer cancel()

			cmds, err := newAPIClient().commands(ctx)
			if err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("NAME", "DANGER", "DESCRIPTION")
			for _, c := range cmds {
				danger := ""
				if c.Danger {
					danger = "yes"
				}
				table.AddRow(c.Name, danger, c.Description)
			}

			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
