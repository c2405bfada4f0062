package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/klondike-tools/dash/pkg/api"
	"github.com/klondike-tools/dash/pkg/models"
	"github.com/klondike-tools/dash/pkg/prefs"
	"github.com/klondike-tools/dash/pkg/store"
)

// Messages pumped in from store subscriptions.
type (
	featuresMsg  []models.Feature
	summaryMsg   struct{ summary *models.StatusSummary }
	activityMsg  []models.ActivityEntry
	rosterMsg    []models.Presence
	timerMsg     store.TimerSnapshot
	selectionMsg struct{}
	themeMsg     struct{}
	layoutMsg    []prefs.Widget
	connectedMsg bool

	// updateNoticeMsg signals that server views may be stale. The
	// payload is never merged; the model re-fetches instead.
	updateNoticeMsg struct{ msg *models.UpdateMessage }
)

// toastMsg is a transient notice shown in the footer.
type toastMsg struct {
	text    string
	isError bool
}

type clearToastMsg struct{}

// refreshedMsg carries the result of one full re-fetch.
type refreshedMsg struct {
	features []models.Feature
	summary  *models.StatusSummary
	activity []models.ActivityEntry
	err      error
}

const activityFetchLimit = 30

// refreshCmd re-fetches the three server views the widgets render.
func refreshCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		var out refreshedMsg
		out.features, out.err = client.ListFeatures(ctx)
		if out.err != nil {
			return out
		}
		out.summary, out.err = client.StatusSummary(ctx)
		if out.err != nil {
			return out
		}
		out.activity, out.err = client.Activity(ctx, activityFetchLimit)
		return out
	}
}

const toastDuration = 4 * time.Second

func expireToastCmd() tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}
