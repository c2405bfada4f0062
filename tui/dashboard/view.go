package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/klondike-tools/dash/pkg/models"
	"github.com/klondike-tools/dash/pkg/prefs"
	"github.com/klondike-tools/dash/tui/components/table"
	"github.com/klondike-tools/dash/tui/theme"
)

// View renders the widget stack in layout order.
func (m Model) View() string {
	if m.width > 0 && (m.width < 60 || m.height < 15) {
		return "Terminal too small. Please resize."
	}

	if m.help.ShowAll {
		return m.renderFullHelp()
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	visible := m.visibleWidgets()
	for i, w := range visible {
		sections = append(sections, m.renderWidget(w, i == m.focus))
	}
	if len(visible) == 0 {
		sections = append(sections, m.theme.Muted.Render("All widgets hidden. Press ctrl+r to reset the layout."))
	}

	sections = append(sections, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	t := m.theme

	title := "KLONDIKE DASH"
	if m.summary != nil && m.summary.ProjectName != "" {
		title = m.summary.ProjectName
	}

	conn := t.Error.Render("○ offline")
	if m.connected {
		conn = t.Success.Render("● live")
	}

	left := t.Accent.Render(title)
	line := left + "  " + conn
	if m.statusFilter != "" {
		line += "  " + t.Highlight.Render("["+string(m.statusFilter)+"]")
	}
	if m.categoryFilter != "" {
		line += "  " + t.Highlight.Render("["+string(m.categoryFilter)+"]")
	}
	if m.search != "" {
		line += "  " + t.Muted.Render("/"+m.search)
	}
	return line
}

func (m Model) renderWidget(w prefs.Widget, focused bool) string {
	var body string
	switch w.Type {
	case prefs.WidgetStatus:
		body = m.renderStatus()
	case prefs.WidgetSession:
		body = m.renderSession()
	case prefs.WidgetKanban:
		body = m.renderKanban(w.Size)
	case prefs.WidgetTable:
		body = m.renderTable(w.Size)
	case prefs.WidgetActivity:
		body = m.renderActivity(w.Size)
	case prefs.WidgetPresence:
		body = m.renderPresence()
	default:
		body = m.theme.Muted.Render("unknown widget " + w.ID)
	}

	box := m.theme.Box
	if focused {
		box = m.theme.DetailsBox
	}
	if m.width > 4 {
		box = box.Width(m.width - 2)
	}

	title := m.theme.Bold.Render(widgetIcon(w.Type) + " " + w.Title)
	return box.Render(title + "\n" + body)
}

func widgetIcon(t prefs.WidgetType) string {
	switch t {
	case prefs.WidgetStatus:
		return theme.IconStatus
	case prefs.WidgetKanban:
		return theme.IconKanban
	case prefs.WidgetTable:
		return theme.IconTable
	case prefs.WidgetActivity:
		return theme.IconActivity
	case prefs.WidgetPresence:
		return theme.IconPresence
	case prefs.WidgetSession:
		return theme.IconSession
	}
	return ""
}

func (m Model) renderStatus() string {
	t := m.theme
	if m.summary == nil {
		return t.Muted.Render("No status yet.")
	}
	s := m.summary

	counts := fmt.Sprintf("%s %d  %s %d  %s %d  %s %d",
		t.NotStarted.Render(theme.IconNotStarted), s.Counts.NotStarted,
		t.InProgress.Render(theme.IconInProgress), s.Counts.InProgress,
		t.Blocked.Render(theme.IconBlocked), s.Counts.Blocked,
		t.Verified.Render(theme.IconVerified), s.Counts.Verified,
	)

	pct := s.CompletionPercent()
	bar := renderBar(pct, 24)
	progress := fmt.Sprintf("%s %d%% (%d/%d passing)", t.Accent.Render(bar), pct, s.PassingFeatures, s.TotalFeatures)

	lines := []string{counts, progress}
	if s.CurrentStatus != "" {
		lines = append(lines, t.Muted.Render(s.CurrentStatus))
	}
	return strings.Join(lines, "\n")
}

func renderBar(pct, width int) string {
	filled := pct * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (m Model) renderSession() string {
	t := m.theme
	if !m.timer.Active {
		return t.Muted.Render("No active session.")
	}
	elapsed := m.timer.Elapsed.Round(time.Second)
	return fmt.Sprintf("%s #%d  %s  %s",
		t.Success.Render("▶"),
		m.timer.SessionNumber,
		t.Bold.Render(m.timer.Focus),
		t.Accent.Render(elapsed.String()),
	)
}

func (m Model) renderKanban(size prefs.WidgetSize) string {
	t := m.theme
	visible := m.visibleFeatures()
	maxRows := sizeRows(size)

	cursorID := ""
	if f, ok := m.cursorFeature(); ok {
		cursorID = f.ID
	}

	colWidth := 20
	if m.width > 0 {
		if w := (m.width - 12) / len(models.AllStatuses); w > colWidth {
			colWidth = w
		}
	}

	cols := make([]string, 0, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		var rows []string
		header := t.StatusStyle(status).Render(theme.StatusIcon(status)+" "+status.Label()) +
			t.Muted.Render(fmt.Sprintf(" %d", countByStatus(visible, status)))
		rows = append(rows, header)

		n := 0
		for _, f := range visible {
			if f.Status != status {
				continue
			}
			if n >= maxRows {
				rows = append(rows, t.Muted.Render("…"))
				break
			}
			rows = append(rows, m.renderCard(f, colWidth, f.ID == cursorID))
			n++
		}
		col := lipgloss.NewStyle().Width(colWidth).Render(strings.Join(rows, "\n"))
		cols = append(cols, col)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) renderCard(f models.Feature, width int, underCursor bool) string {
	t := m.theme

	marker := "  "
	if m.deps.selection.Has(f.ID) {
		marker = t.Accent.Render("◆ ")
	}
	text := fmt.Sprintf("%s%s %s", marker, f.ID, truncate(f.Description, width-10))
	if underCursor {
		return t.Selected.Render(text)
	}
	return text
}

func (m Model) renderTable(size prefs.WidgetSize) string {
	visible := m.visibleFeatures()
	if len(visible) == 0 {
		return m.theme.Muted.Render("No features match.")
	}

	maxRows := sizeRows(size)
	cursorID := ""
	if f, ok := m.cursorFeature(); ok {
		cursorID = f.ID
	}

	rows := make([][]string, 0, len(visible))
	for i, f := range visible {
		if i >= maxRows {
			break
		}
		sel := " "
		if m.deps.selection.Has(f.ID) {
			sel = "◆"
		}
		cur := " "
		if f.ID == cursorID {
			cur = "›"
		}
		rows = append(rows, []string{
			cur + sel,
			f.ID,
			theme.StatusIcon(f.Status) + " " + string(f.Status),
			string(f.Category),
			fmt.Sprintf("%d", f.Priority),
			truncate(f.Description, 48),
		})
	}
	return table.Render(m.theme, []string{"", "ID", "Status", "Category", "Pri", "Description"}, rows)
}

func (m Model) renderActivity(size prefs.WidgetSize) string {
	t := m.theme
	if len(m.activity) == 0 {
		return t.Muted.Render("No recent activity.")
	}
	maxRows := sizeRows(size)

	var lines []string
	for i, e := range m.activity {
		if i >= maxRows {
			break
		}
		line := t.Muted.Render(e.Timestamp) + " " + t.Bold.Render(e.Action)
		if e.FeatureID != "" {
			line += " " + t.Accent.Render(e.FeatureID)
		}
		if e.Detail != "" {
			line += " " + truncate(e.Detail, 60)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPresence() string {
	t := m.theme
	if len(m.roster) == 0 {
		return t.Muted.Render("Nobody else is here.")
	}

	var lines []string
	for _, p := range m.roster {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("●")
		line := dot + " " + p.DisplayName
		if p.CurrentView != "" {
			line += t.Muted.Render(" · " + p.CurrentView)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	t := m.theme

	if m.prompt != promptNone {
		return m.promptInput.View()
	}

	var parts []string
	if m.toast != nil {
		style := t.Success
		if m.toast.isError {
			style = t.Error
		}
		parts = append(parts, style.Render(m.toast.text))
	}
	if n := m.deps.selection.Len(); n > 0 {
		parts = append(parts, t.Accent.Render(fmt.Sprintf("%d selected", n)))
	}
	parts = append(parts, t.Muted.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return strings.Join(parts, "  ")
}

func (m Model) renderFullHelp() string {
	title := m.theme.Title.Render("Keybindings")
	body := m.help.FullHelpView(m.keys.FullHelp())
	hint := m.theme.Muted.Render("press ? or esc to close")
	return lipgloss.JoinVertical(lipgloss.Left, title, body, "", hint)
}

func sizeRows(size prefs.WidgetSize) int {
	switch size {
	case prefs.SizeSmall:
		return 4
	case prefs.SizeMedium:
		return 8
	case prefs.SizeLarge:
		return 14
	default:
		return 25
	}
}

func countByStatus(fs []models.Feature, status models.FeatureStatus) int {
	n := 0
	for _, f := range fs {
		if f.Status == status {
			n++
		}
	}
	return n
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
