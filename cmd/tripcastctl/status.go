package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/tripcast-io/tripcast/internal/overlay/trip"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current overlay state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), reqTimeout)
			defer cancel()

			state, err := newAPIClient().overlay(ctx)
			if err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("PANEL:", state.PanelState)

			if state.Visual == nil {
				table.AddRow("DISPLAY:", "waiting for first render")
			} else {
				table.AddRow("PROGRESS:", state.Visual.PercentLabelText)
				table.AddRow("FILL:", fmt.Sprintf("%.1f%%", state.Visual.FillPercent))
				table.AddRow("TRAVELED:", state.Visual.TraveledText)
				table.AddRow("REMAINING:", state.Visual.RemainingText)
				table.AddRow("TARGET:", state.Visual.TodayText)
				table.AddRow("UPDATED:", fmt.Sprintf("%s ago", time.Since(state.UpdatedAt).Round(time.Second)))
				if state.Stale {
					table.AddRow("STALE:", "yes")
				}
			}

			if state.Feedback.Kind != trip.FeedbackNone {
				table.AddRow("FEEDBACK:", fmt.Sprintf("[%s] %s", state.Feedback.Kind, state.Feedback.Message))
			}

			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
