package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klondike-tools/dash/cli"
	"github.com/klondike-tools/dash/logging"
	"github.com/klondike-tools/dash/tui/theme"
)

// NewStatusCmd creates the `status` command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the project status summary",
		Long: `Fetches the aggregate project view from the tracker server: per-status
feature counts, completion percentage and the active session, if any.

Examples:
  # Human-readable summary
  dash status

  # Machine-readable output
  dash status --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup(cmd)
			if err != nil {
				return handle(cmd, err)
			}

			summary, err := client.StatusSummary(cmd.Context())
			if err != nil {
				return handle(cmd, err)
			}

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(summary)
			}

			t := theme.DefaultTheme
			pretty := logging.NewPrettyLogger()

			name := summary.ProjectName
			if summary.Version != "" {
				name = fmt.Sprintf("%s v%s", name, summary.Version)
			}
			pretty.InfoPretty(t.Bold.Render(name))
			pretty.Field("Not started", summary.Counts.NotStarted)
			pretty.Field("In progress", summary.Counts.InProgress)
			pretty.Field("Blocked", summary.Counts.Blocked)
			pretty.Field("Verified", summary.Counts.Verified)
			pretty.Field("Passing", fmt.Sprintf("%d/%d (%d%%)",
				summary.PassingFeatures, summary.TotalFeatures, summary.CompletionPercent()))
			if summary.CurrentStatus != "" {
				pretty.Field("Current", summary.CurrentStatus)
			}
			if s := summary.ActiveSession; s != nil {
				pretty.Blank()
				pretty.InfoPretty(fmt.Sprintf("Active session #%d: %s", s.SessionNumber, s.Focus))
			}
			return nil
		},
	}
}
