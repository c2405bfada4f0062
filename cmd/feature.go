package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klondike-tools/dash/cli"
	dasherr "github.com/klondike-tools/dash/errors"
	"github.com/klondike-tools/dash/logging"
	"github.com/klondike-tools/dash/pkg/api"
	"github.com/klondike-tools/dash/pkg/models"
	"github.com/klondike-tools/dash/pkg/mutate"
	"github.com/klondike-tools/dash/pkg/store"
	"github.com/klondike-tools/dash/tui/components/table"
	"github.com/klondike-tools/dash/tui/theme"
)

// NewFeatureCmd creates the `feature` command group.
func NewFeatureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "feature",
		Aliases: []string{"f"},
		Short:   "Inspect and change tracked features",
	}

	cmd.AddCommand(newFeatureListCmd())
	cmd.AddCommand(newFeatureShowCmd())
	cmd.AddCommand(newFeatureAddCmd())
	cmd.AddCommand(newFeatureEditCmd())
	cmd.AddCommand(newFeatureLifecycleCmd("start", "Mark a feature as in progress"))
	cmd.AddCommand(newFeatureLifecycleCmd("block", "Mark a feature as blocked"))
	cmd.AddCommand(newFeatureLifecycleCmd("verify", "Mark a feature as verified"))
	cmd.AddCommand(newFeatureBulkCmd())
	cmd.AddCommand(newFeatureReorderCmd())

	return cmd
}

func newFeatureListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked features",
		Long: `Lists the feature registry, optionally filtered.

Examples:
  # Everything, as a table
  dash feature list

  # Only blocked UI work
  dash feature list --status blocked --category ui

  # Free-text match
  dash feature list --search login
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup(cmd)
			if err != nil {
				return handle(cmd, err)
			}

			features, err := client.ListFeatures(cmd.Context())
			if err != nil {
				return handle(cmd, err)
			}

			status, _ := cmd.Flags().GetString("status")
			category, _ := cmd.Flags().GetString("category")
			search, _ := cmd.Flags().GetString("search")
			features = filterFeatures(features, status, category, search)

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(features)
			}

			t := theme.DefaultTheme
			if len(features) == 0 {
				fmt.Println(t.Muted.Render("No features match."))
				return nil
			}

			rows := make([][]string, 0, len(features))
			for _, f := range features {
				pass := ""
				if f.Passes {
					pass = t.Success.Render("✓")
				}
				rows = append(rows, []string{
					f.ID,
					t.RenderStatus(f.Status, theme.StatusIcon(f.Status)+" "+string(f.Status)),
					string(f.Category),
					strconv.Itoa(f.Priority),
					pass,
					f.Description,
				})
			}
			fmt.Println(table.Render(t, []string{"ID", "Status", "Category", "Pri", "Pass", "Description"}, rows))
			return nil
		},
	}

	cmd.Flags().String("status", "", "Filter by status (not-started, in-progress, blocked, verified)")
	cmd.Flags().String("category", "", "Filter by category")
	cmd.Flags().String("search", "", "Filter by substring of id, description or notes")
	return cmd
}

func newFeatureShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one feature in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup(cmd)
			if err != nil {
				return handle(cmd, err)
			}

			feature, err := client.GetFeature(cmd.Context(), args[0])
			if err != nil {
				return handle(cmd, err)
			}

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(feature)
			}

			t := theme.DefaultTheme
			pretty := logging.NewPrettyLogger()
			pretty.InfoPretty(t.Bold.Render(feature.ID) + " " + feature.Description)
			pretty.Field("Status", t.RenderStatus(feature.Status, string(feature.Status)))
			pretty.Field("Category", string(feature.Category))
			pretty.Field("Priority", feature.Priority)
			pretty.Field("Passes", feature.Passes)
			if feature.EstimatedEffort != "" {
				pretty.Field("Effort", feature.EstimatedEffort)
			}
			if len(feature.Dependencies) > 0 {
				pretty.Field("Depends on", strings.Join(feature.Dependencies, ", "))
			}
			for _, c := range feature.AcceptanceCriteria {
				pretty.Field("Criterion", c)
			}
			if len(feature.BlockedBy) > 0 {
				pretty.Field("Blocked by", strings.Join(feature.BlockedBy, "; "))
			}
			if feature.VerifiedAt != "" {
				pretty.Field("Verified", fmt.Sprintf("%s by %s", feature.VerifiedAt, feature.VerifiedBy))
			}
			for _, link := range feature.EvidenceLinks {
				pretty.Path("Evidence", link)
			}
			if feature.Notes != "" {
				pretty.Field("Notes", feature.Notes)
			}
			return nil
		},
	}
}

func newFeatureAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new feature",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup(cmd)
			if err != nil {
				return handle(cmd, err)
			}

			description, _ := cmd.Flags().GetString("description")
			if description == "" {
				return handle(cmd, dasherr.New(dasherr.ErrCodeInvalidInput, "--description is required"))
			}
			category, _ := cmd.Flags().GetString("category")
			priority, _ := cmd.Flags().GetInt("priority")
			criteria, _ := cmd.Flags().GetStringSlice("criteria")
			notes, _ := cmd.Flags().GetString("notes")

			feature, err := client.CreateFeature(cmd.Context(), models.CreateFeatureRequest{
				Description:        description,
				Category:           category,
				Priority:           priority,
				AcceptanceCriteria: criteria,
				Notes:              notes,
			})
			if err != nil {
				return handle(cmd, err)
			}

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(feature)
			}
			logging.NewPrettyLogger().Success(fmt.Sprintf("Created %s: %s", feature.ID, feature.Description))
			return nil
		},
	}

	cmd.Flags().StringP("description", "d", "", "Feature description (required)")
	cmd.Flags().String("category", "core", "Feature category")
	cmd.Flags().Int("priority", 0, "Priority rank (0 = server decides)")
	cmd.Flags().StringSlice("criteria", nil, "Acceptance criteria (repeatable)")
	cmd.Flags().String("notes", "", "Free-form notes")
	return cmd
}

func newFeatureEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a feature's editable fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup(cmd)
			if err != nil {
				return handle(cmd, err)
			}

			// Start from the current server state so unset flags keep
			// their values.
			current, err := client.GetFeature(cmd.Context(), args[0])
			if err != nil {
				return handle(cmd, err)
			}

			req := models.UpdateFeatureRequest{
				Description: current.Description,
				Notes:       current.Notes,
				Category:    string(current.Category),
				Priority:    current.Priority,
			}
			if cmd.Flags().Changed("description") {
				req.Description, _ = cmd.Flags().GetString("description")
			}
			if cmd.Flags().Changed("notes") {
				req.Notes, _ = cmd.Flags().GetString("notes")
			}
			if cmd.Flags().Changed("category") {
				req.Category, _ = cmd.Flags().GetString("category")
			}
			if cmd.Flags().Changed("priority") {
				req.Priority, _ = cmd.Flags().GetInt("priority")
			}

			feature, err := client.UpdateFeature(cmd.Context(), args[0], req)
			if err != nil {
				return handle(cmd, err)
			}

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(feature)
			}
			logging.NewPrettyLogger().Success(fmt.Sprintf("Updated %s", feature.ID))
			return nil
		},
	}

	cmd.Flags().StringP("description", "d", "", "New description")
	cmd.Flags().String("notes", "", "New notes")
	cmd.Flags().String("category", "", "New category")
	cmd.Flags().Int("priority", 0, "New priority rank")
	return cmd
}

// newFeatureLifecycleCmd builds start/block/verify, which share their
// optimistic-mutation plumbing.
func newFeatureLifecycleCmd(action, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   action + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup(cmd)
			if err != nil {
				return handle(cmd, err)
			}

			m, err := newCLIMutator(cmd, client)
			if err != nil {
				return handle(cmd, err)
			}

			id := args[0]
			switch action {
			case "start":
				err = m.Start(cmd.Context(), id)
			case "block":
				reason, _ := cmd.Flags().GetString("reason")
				err = m.Block(cmd.Context(), id, reason)
			case "verify":
				evidence, _ := cmd.Flags().GetString("evidence")
				err = m.Verify(cmd.Context(), id, evidence)
			}
			if err != nil {
				return handle(cmd, err)
			}
			return nil
		},
	}

	switch action {
	case "block":
		cmd.Flags().String("reason", "", "Why the feature is blocked")
	case "verify":
		cmd.Flags().String("evidence", "", "Evidence link or note for verification")
	}
	return cmd
}

func newFeatureBulkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk <start|block|verify>",
		Short: "Apply one action to many features",
		Long: `Applies a lifecycle action to a set of features with bounded
concurrency. Select features explicitly with --ids, or by pattern with
--match (docker-style globs against ids and categories).

Examples:
  # Start everything in the auth area
  dash feature bulk start --match 'F00*'

  # Block three features with one reason
  dash feature bulk block --ids F001,F002,F003 --reason "waiting on infra"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := setup(cmd)
			if err != nil {
				return handle(cmd, err)
			}

			action := mutate.BulkAction(args[0])
			switch action {
			case mutate.BulkStart, mutate.BulkBlock, mutate.BulkVerify:
			default:
				return handle(cmd, dasherr.New(dasherr.ErrCodeInvalidInput,
					fmt.Sprintf("unknown bulk action %q", args[0])))
			}

			features, err := client.ListFeatures(cmd.Context())
			if err != nil {
				return handle(cmd, err)
			}

			ids, _ := cmd.Flags().GetStringSlice("ids")
			pattern, _ := cmd.Flags().GetString("match")
			if pattern != "" {
				matched, err := mutate.MatchIDs(features, pattern)
				if err != nil {
					return handle(cmd, err)
				}
				ids = append(ids, matched...)
			}
			if len(ids) == 0 {
				return handle(cmd, dasherr.New(dasherr.ErrCodeInvalidInput,
					"nothing selected: pass --ids or --match"))
			}

			detail, _ := cmd.Flags().GetString("reason")
			if evidence, _ := cmd.Flags().GetString("evidence"); evidence != "" {
				detail = evidence
			}

			m := mutate.NewMutator(client, store.New(features), logging.NewPrettyLogger(), cli.GetLogger(cmd).WithField("component", "dash-cli"))

			reporter := cli.NewProgressReporter()
			for _, id := range ids {
				reporter.Update(id, "pending")
			}
			res := m.BulkWithProgress(cmd.Context(), action, ids, detail, cfg.BulkConcurrency(), func(id string, err error) {
				if err != nil {
					reporter.Update(id, "failed")
				} else {
					reporter.Update(id, "done")
				}
			})
			reporter.Done()

			if res.Failed > 0 {
				for _, e := range res.Errors {
					fmt.Println(theme.DefaultTheme.Error.Render("  " + e.Error()))
				}
				return fmt.Errorf("%d of %d actions failed", res.Failed, res.Failed+res.Succeeded)
			}
			return nil
		},
	}

	cmd.Flags().StringSlice("ids", nil, "Feature ids (comma-separated)")
	cmd.Flags().String("match", "", "Select features whose id or category matches the pattern")
	cmd.Flags().String("reason", "", "Reason (for block)")
	cmd.Flags().String("evidence", "", "Evidence (for verify)")
	return cmd
}

func newFeatureReorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id> <index>",
		Short: "Move a feature to a new position in the priority order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup(cmd)
			if err != nil {
				return handle(cmd, err)
			}

			index, err := strconv.Atoi(args[1])
			if err != nil || index < 0 {
				return handle(cmd, dasherr.New(dasherr.ErrCodeInvalidInput,
					fmt.Sprintf("index must be a non-negative integer, got %q", args[1])))
			}

			features, err := client.ListFeatures(cmd.Context())
			if err != nil {
				return handle(cmd, err)
			}

			order, err := reorderedPriorities(features, args[0], index)
			if err != nil {
				return handle(cmd, err)
			}

			m, err := newCLIMutatorWith(cmd, client, features)
			if err != nil {
				return handle(cmd, err)
			}
			if err := m.Reorder(cmd.Context(), order); err != nil {
				return handle(cmd, err)
			}
			return nil
		},
	}
}

// reorderedPriorities moves id to index and renumbers priorities 1..n.
func reorderedPriorities(features []models.Feature, id string, index int) ([]models.ReorderItem, error) {
	from := -1
	for i, f := range features {
		if f.ID == id {
			from = i
			break
		}
	}
	if from == -1 {
		return nil, dasherr.New(dasherr.ErrCodeInvalidInput, fmt.Sprintf("unknown feature %s", id))
	}
	if index >= len(features) {
		index = len(features) - 1
	}

	ids := make([]string, 0, len(features))
	for _, f := range features {
		ids = append(ids, f.ID)
	}
	ids = append(ids[:from], ids[from+1:]...)
	ids = append(ids[:index], append([]string{id}, ids[index:]...)...)

	order := make([]models.ReorderItem, len(ids))
	for i, fid := range ids {
		order[i] = models.ReorderItem{ID: fid, Priority: i + 1}
	}
	return order, nil
}

// newCLIMutator fetches the registry and wraps it in an optimistic
// mutator whose notices go to the terminal.
func newCLIMutator(cmd *cobra.Command, client *api.Client) (*mutate.Mutator, error) {
	features, err := client.ListFeatures(cmd.Context())
	if err != nil {
		return nil, err
	}
	return newCLIMutatorWith(cmd, client, features)
}

func newCLIMutatorWith(cmd *cobra.Command, client *api.Client, features []models.Feature) (*mutate.Mutator, error) {
	log := cli.GetLogger(cmd).WithField("component", "dash-cli")
	return mutate.NewMutator(client, store.New(features), logging.NewPrettyLogger(), log), nil
}

func filterFeatures(features []models.Feature, status, category, search string) []models.Feature {
	out := features[:0]
	for _, f := range features {
		if status != "" && string(f.Status) != status {
			continue
		}
		if category != "" && string(f.Category) != category {
			continue
		}
		if search != "" {
			q := strings.ToLower(search)
			if !strings.Contains(strings.ToLower(f.ID), q) &&
				!strings.Contains(strings.ToLower(f.Description), q) &&
				!strings.Contains(strings.ToLower(f.Notes), q) {
				continue
			}
		}
		out = append(out, f)
	}
	return out
}
