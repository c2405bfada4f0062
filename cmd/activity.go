package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klondike-tools/dash/cli"
	"github.com/klondike-tools/dash/tui/theme"
)

// NewActivityCmd creates the `activity` command.
func NewActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the recent activity feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup(cmd)
			if err != nil {
				return handle(cmd, err)
			}

			limit, _ := cmd.Flags().GetInt("limit")
			entries, err := client.Activity(cmd.Context(), limit)
			if err != nil {
				return handle(cmd, err)
			}

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(entries)
			}

			t := theme.DefaultTheme
			if len(entries) == 0 {
				fmt.Println(t.Muted.Render("No recent activity."))
				return nil
			}
			for _, e := range entries {
				line := t.Muted.Render(e.Timestamp) + " " + t.Bold.Render(e.Action)
				if e.FeatureID != "" {
					line += " " + t.Accent.Render(e.FeatureID)
				}
				if e.Actor != "" {
					line += t.Muted.Render(" by " + e.Actor)
				}
				if e.Detail != "" {
					line += " " + e.Detail
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of entries to show")
	return cmd
}
