package dashboard

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/klondike-tools/dash/pkg/models"
	"github.com/klondike-tools/dash/pkg/mutate"
	"github.com/klondike-tools/dash/pkg/store"
)

// Update handles messages and updates the model accordingly.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case featuresMsg:
		m.features = msg
		m.clampCursor()
		return m, nil

	case summaryMsg:
		m.summary = msg.summary
		return m, nil

	case activityMsg:
		m.activity = msg
		return m, nil

	case rosterMsg:
		m.roster = msg
		return m, nil

	case timerMsg:
		m.timer = store.TimerSnapshot(msg)
		return m, nil

	case layoutMsg:
		m.widgets = msg
		if m.focus >= len(m.visibleWidgets()) {
			m.focus = 0
		}
		return m, nil

	case themeMsg:
		m.rebuildTheme()
		return m, nil

	case selectionMsg:
		return m, nil

	case connectedMsg:
		m.connected = bool(msg)
		return m, nil

	case updateNoticeMsg:
		// A change notification only means cached views may be stale.
		return m, refreshCmd(m.deps.client)

	case refreshedMsg:
		return m.applyRefresh(msg)

	case toastMsg:
		t := msg
		m.toast = &t
		return m, expireToastCmd()

	case clearToastMsg:
		m.toast = nil
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// applyRefresh lands a fetched snapshot in the shared stores. The model's
// render copies follow via the subscription messages.
func (m *Model) applyRefresh(msg refreshedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.deps.log.WithError(msg.err).Warn("Dashboard refresh failed")
		t := toastMsg{text: "Refresh failed: " + msg.err.Error(), isError: true}
		m.toast = &t
		return m, expireToastCmd()
	}

	m.deps.features.Set(msg.features)
	m.deps.summary.Set(msg.summary)
	m.deps.activity.Set(msg.activity)

	var session *models.Session
	if msg.summary != nil {
		session = msg.summary.ActiveSession
	}
	m.deps.timer.Apply(session)

	// Keep the render copies current even when no subscription pump is
	// attached.
	m.features = msg.features
	m.summary = msg.summary
	m.activity = msg.activity
	m.timer = m.deps.timer.Snapshot()
	m.clampCursor()
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) || key.Matches(msg, m.keys.Cancel) {
			m.help.ShowAll = false
		}
		return m, nil
	}

	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = true
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, refreshCmd(m.deps.client)

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.lastKeyWasG = false

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visibleFeatures())-1 {
			m.cursor++
		}
		m.lastKeyWasG = false

	case key.Matches(msg, m.keys.Top):
		// 'gg' jumps to the top, vim style.
		if m.lastKeyWasG {
			m.cursor = 0
			m.lastKeyWasG = false
		} else {
			m.lastKeyWasG = true
		}

	case key.Matches(msg, m.keys.Bottom):
		if n := len(m.visibleFeatures()); n > 0 {
			m.cursor = n - 1
		}
		m.lastKeyWasG = false

	case key.Matches(msg, m.keys.NextTab):
		return m.cycleFocus(1)

	case key.Matches(msg, m.keys.PrevTab):
		return m.cycleFocus(-1)

	case key.Matches(msg, m.keys.Select):
		if f, ok := m.cursorFeature(); ok {
			m.deps.selection.Toggle(f.ID)
		}

	case key.Matches(msg, m.keys.SelectAll):
		visible := m.visibleFeatures()
		ids := make([]string, len(visible))
		for i, f := range visible {
			ids[i] = f.ID
		}
		m.deps.selection.SelectAll(ids)

	case key.Matches(msg, m.keys.SelectNone):
		m.deps.selection.Clear()

	case key.Matches(msg, m.keys.Search):
		m.openPrompt(promptSearch, "filter: ", m.search, nil)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.FilterStatus):
		m.setStatusFilter(nextStatusFilter(m.statusFilter))

	case key.Matches(msg, m.keys.FilterCategory):
		m.setCategoryFilter(nextCategoryFilter(m.categoryFilter))

	case key.Matches(msg, m.keys.ClearSearch):
		if m.search != "" || m.statusFilter != "" || m.categoryFilter != "" {
			m.setStatusFilter("")
			m.setCategoryFilter("")
			m.setSearch("")
		}

	case key.Matches(msg, m.keys.Start):
		if ids := m.mutationTargets(); len(ids) > 0 {
			return m, m.mutationCmd(mutate.BulkStart, ids, "")
		}

	case key.Matches(msg, m.keys.Block):
		if ids := m.mutationTargets(); len(ids) > 0 {
			m.openPrompt(promptBlockReason, "blocked by: ", "", ids)
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.Verify):
		if ids := m.mutationTargets(); len(ids) > 0 {
			m.openPrompt(promptVerifyEvidence, "evidence: ", "", ids)
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.CycleTheme):
		m.deps.themes.SetMode(nextThemeMode(m.deps.themes.Current().Mode))
		m.rebuildTheme()

	case key.Matches(msg, m.keys.CycleAccent):
		m.deps.themes.SetAccent(nextAccentID(m.deps.themes.Current().AccentColorID))
		m.rebuildTheme()

	case key.Matches(msg, m.keys.HideWidget):
		if w, ok := m.focusedWidget(); ok {
			m.deps.layout.ToggleVisibility(w.ID)
			m.syncLayout()
		}

	case key.Matches(msg, m.keys.MoveLeft):
		m.moveFocusedWidget(-1)

	case key.Matches(msg, m.keys.MoveRight):
		m.moveFocusedWidget(1)

	case key.Matches(msg, m.keys.GrowWidget):
		if w, ok := m.focusedWidget(); ok {
			m.deps.layout.SetSize(w.ID, nextWidgetSize(w.Size))
			m.syncLayout()
		}

	case key.Matches(msg, m.keys.ResetLayout):
		m.deps.layout.ResetToDefaults()
		m.focus = 0
		m.syncLayout()
	}

	return m, nil
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.prompt == promptSearch {
			m.setSearch("")
		}
		m.closePrompt()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		value := m.promptInput.Value()
		kind, ids := m.prompt, m.promptIDs
		m.closePrompt()
		switch kind {
		case promptBlockReason:
			return m, m.mutationCmd(mutate.BulkBlock, ids, value)
		case promptVerifyEvidence:
			return m, m.mutationCmd(mutate.BulkVerify, ids, value)
		case promptSearch:
			m.setSearch(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	if m.prompt == promptSearch {
		// Live filtering while typing.
		m.setSearch(m.promptInput.Value())
	}
	return m, cmd
}

func (m *Model) openPrompt(kind promptKind, placeholder, value string, ids []string) {
	m.prompt = kind
	m.promptIDs = ids
	m.promptInput.Prompt = placeholder
	m.promptInput.SetValue(value)
	m.promptInput.CursorEnd()
	m.promptInput.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.promptIDs = nil
	m.promptInput.Blur()
	m.promptInput.SetValue("")
}

// Filter setters clear the selection: a hidden row must never stay
// selected.
func (m *Model) setStatusFilter(s models.FeatureStatus) {
	if m.statusFilter == s {
		return
	}
	m.statusFilter = s
	m.onFilterChanged()
}

func (m *Model) setCategoryFilter(c models.FeatureCategory) {
	if m.categoryFilter == c {
		return
	}
	m.categoryFilter = c
	m.onFilterChanged()
}

func (m *Model) setSearch(s string) {
	if m.search == s {
		return
	}
	m.search = s
	m.onFilterChanged()
}

func (m *Model) onFilterChanged() {
	m.deps.selection.Clear()
	m.cursor = 0
}

// mutationCmd dispatches one optimistic mutation, or a bounded-concurrency
// bulk run when several features are targeted. Outcomes arrive as toasts
// through the notifier.
func (m *Model) mutationCmd(action mutate.BulkAction, ids []string, detail string) tea.Cmd {
	mut := m.deps.mutator
	concurrency := m.deps.concurrency
	return func() tea.Msg {
		ctx := context.Background()
		if len(ids) == 1 {
			switch action {
			case mutate.BulkStart:
				_ = mut.Start(ctx, ids[0])
			case mutate.BulkBlock:
				_ = mut.Block(ctx, ids[0], detail)
			case mutate.BulkVerify:
				_ = mut.Verify(ctx, ids[0], detail)
			}
			return nil
		}
		mut.Bulk(ctx, action, ids, detail, concurrency)
		return nil
	}
}

func (m *Model) cycleFocus(delta int) (tea.Model, tea.Cmd) {
	visible := m.visibleWidgets()
	if len(visible) == 0 {
		return m, nil
	}
	m.focus = (m.focus + delta + len(visible)) % len(visible)
	if m.deps.presence != nil {
		m.deps.presence.AnnounceView(visible[m.focus].ID)
	}
	return m, nil
}

func (m *Model) moveFocusedWidget(delta int) {
	w, ok := m.focusedWidget()
	if !ok {
		return
	}
	for i, cur := range m.widgets {
		if cur.ID == w.ID {
			m.deps.layout.Reorder(w.ID, i+delta)
			break
		}
	}
	m.syncLayout()
	// Follow the widget so repeated presses keep moving it.
	for i, cur := range m.visibleWidgets() {
		if cur.ID == w.ID {
			m.focus = i
			break
		}
	}
}

// syncLayout refreshes the render copy immediately; the subscription
// message delivers the same data again when a pump is attached.
func (m *Model) syncLayout() {
	m.widgets = m.deps.layout.Current()
}

func (m *Model) clampCursor() {
	if n := len(m.visibleFeatures()); m.cursor >= n {
		if n == 0 {
			m.cursor = 0
		} else {
			m.cursor = n - 1
		}
	}
}
