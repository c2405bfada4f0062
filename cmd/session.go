package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klondike-tools/dash/cli"
	dasherr "github.com/klondike-tools/dash/errors"
	"github.com/klondike-tools/dash/logging"
	"github.com/klondike-tools/dash/pkg/models"
)

// NewSessionCmd creates the `session` command group.
func NewSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start and end work sessions",
	}
	cmd.AddCommand(newSessionStartCmd())
	cmd.AddCommand(newSessionEndCmd())
	return cmd
}

func newSessionStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a work session",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup(cmd)
			if err != nil {
				return handle(cmd, err)
			}

			focus, _ := cmd.Flags().GetString("focus")
			if focus == "" {
				return handle(cmd, dasherr.New(dasherr.ErrCodeInvalidInput, "--focus is required"))
			}

			session, err := client.StartSession(cmd.Context(), focus)
			if err != nil {
				return handle(cmd, err)
			}

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(session)
			}
			logging.NewPrettyLogger().Success(
				fmt.Sprintf("Session #%d started: %s", session.SessionNumber, session.Focus))
			return nil
		},
	}

	cmd.Flags().StringP("focus", "f", "", "What this session is about (required)")
	return cmd
}

func newSessionEndCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "end",
		Short: "End the active work session",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup(cmd)
			if err != nil {
				return handle(cmd, err)
			}

			summary, _ := cmd.Flags().GetString("summary")
			completed, _ := cmd.Flags().GetStringSlice("completed")
			blockers, _ := cmd.Flags().GetStringSlice("blockers")
			nextSteps, _ := cmd.Flags().GetStringSlice("next-steps")

			err = client.EndSession(cmd.Context(), models.EndSessionRequest{
				Summary:   summary,
				Completed: completed,
				Blockers:  blockers,
				NextSteps: nextSteps,
			})
			if err != nil {
				return handle(cmd, err)
			}

			logging.NewPrettyLogger().Success("Session ended")
			return nil
		},
	}

	cmd.Flags().String("summary", "", "What happened this session")
	cmd.Flags().StringSlice("completed", nil, "Completed items (repeatable)")
	cmd.Flags().StringSlice("blockers", nil, "Open blockers (repeatable)")
	cmd.Flags().StringSlice("next-steps", nil, "Next steps (repeatable)")
	return cmd
}
