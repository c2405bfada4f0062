package dashboard

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/klondike-tools/dash/pkg/api"
	"github.com/klondike-tools/dash/pkg/models"
	"github.com/klondike-tools/dash/pkg/mutate"
	"github.com/klondike-tools/dash/pkg/prefs"
	"github.com/klondike-tools/dash/pkg/store"
	"github.com/klondike-tools/dash/tui/theme"
)

// viewAnnouncer is the slice of the presence channel the model needs.
// Nil in tests.
type viewAnnouncer interface {
	AnnounceView(view string)
}

// deps are the shared components the model acts on. Stores are the
// source of truth; the model keeps render copies updated via messages.
type deps struct {
	log       *logrus.Entry
	client    *api.Client
	features  *store.Store[[]models.Feature]
	summary   *store.Store[*models.StatusSummary]
	activity  *store.Store[[]models.ActivityEntry]
	timer     *store.Timer
	selection *store.Selection
	themes    *prefs.ThemeManager
	layout    *prefs.LayoutManager
	mutator   *mutate.Mutator
	presence  viewAnnouncer

	concurrency int
}

// promptKind says what the footer input line is collecting.
type promptKind int

const (
	promptNone promptKind = iota
	promptSearch
	promptBlockReason
	promptVerifyEvidence
)

// Model is the dashboard's bubbletea model.
type Model struct {
	deps deps
	keys KeyMap

	// Render copies of store state.
	features []models.Feature
	summary  *models.StatusSummary
	activity []models.ActivityEntry
	roster   []models.Presence
	timer    store.TimerSnapshot
	widgets  []prefs.Widget

	theme     *theme.Theme
	connected bool

	// Filters. Empty means no filter; changing any of them clears the
	// selection so a hidden row can never stay selected.
	statusFilter   models.FeatureStatus
	categoryFilter models.FeatureCategory
	search         string

	cursor int // index into visibleFeatures()
	focus  int // index into visibleWidgets()

	prompt      promptKind
	promptIDs   []string // mutation targets captured when the prompt opened
	promptInput textinput.Model

	help  help.Model
	toast *toastMsg

	width  int
	height int

	lastKeyWasG bool
}

// newModel builds the initial model from the current store state.
func newModel(d deps) *Model {
	input := textinput.New()
	input.CharLimit = 200

	m := &Model{
		deps:        d,
		keys:        DefaultKeyMap(),
		features:    d.features.Get(),
		summary:     d.summary.Get(),
		activity:    d.activity.Get(),
		timer:       d.timer.Snapshot(),
		widgets:     d.layout.Current(),
		promptInput: input,
		help:        help.New(),
	}
	m.rebuildTheme()
	return m
}

// Init kicks off the first fetch.
func (m Model) Init() tea.Cmd {
	return refreshCmd(m.deps.client)
}

// rebuildTheme recomputes styles from the persisted settings.
func (m *Model) rebuildTheme() {
	m.theme = theme.FromSettings(m.deps.themes.Current(), m.deps.themes.Dark())
}

// visibleFeatures applies the active filters in registry order.
func (m *Model) visibleFeatures() []models.Feature {
	out := make([]models.Feature, 0, len(m.features))
	for _, f := range m.features {
		if m.statusFilter != "" && f.Status != m.statusFilter {
			continue
		}
		if m.categoryFilter != "" && f.Category != m.categoryFilter {
			continue
		}
		if m.search != "" && !matchesSearch(f, m.search) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// visibleWidgets returns the layout entries currently rendered.
func (m *Model) visibleWidgets() []prefs.Widget {
	out := make([]prefs.Widget, 0, len(m.widgets))
	for _, w := range m.widgets {
		if w.Visible {
			out = append(out, w)
		}
	}
	return out
}

// focusedWidget returns the widget keyboard actions apply to.
func (m *Model) focusedWidget() (prefs.Widget, bool) {
	visible := m.visibleWidgets()
	if len(visible) == 0 {
		return prefs.Widget{}, false
	}
	if m.focus >= len(visible) {
		m.focus = len(visible) - 1
	}
	return visible[m.focus], true
}

// cursorFeature returns the feature under the cursor.
func (m *Model) cursorFeature() (models.Feature, bool) {
	visible := m.visibleFeatures()
	if len(visible) == 0 || m.cursor >= len(visible) {
		return models.Feature{}, false
	}
	return visible[m.cursor], true
}

// mutationTargets resolves what s/b/v act on: the multi-selection when
// one exists, otherwise the cursor row.
func (m *Model) mutationTargets() []string {
	if m.deps.selection.Len() > 0 {
		return m.deps.selection.IDs()
	}
	if f, ok := m.cursorFeature(); ok {
		return []string{f.ID}
	}
	return nil
}
