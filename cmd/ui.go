package cmd

import (
	"github.com/spf13/cobra"

	"github.com/klondike-tools/dash/cli"
	"github.com/klondike-tools/dash/tui/dashboard"
)

// NewUICmd creates the `ui` command, the interactive dashboard.
func NewUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive dashboard",
		Long: `Opens the full-screen dashboard: kanban board, status summary,
activity feed, presence roster and session timer, kept current over the
server's live update socket.

Examples:
  # Default configuration discovery
  dash ui

  # Point at a specific config file
  dash ui --config ./dash.yml
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return handle(cmd, err)
			}

			app, err := dashboard.New(cfg)
			if err != nil {
				return handle(cmd, err)
			}
			return handle(cmd, app.Run(cmd.Context()))
		},
	}
}
