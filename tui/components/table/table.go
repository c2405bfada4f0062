// Package table builds lipgloss tables styled by the active theme. The
// dashboard's feature widget and the CLI list output share it so both
// render identically.
package table

import (
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/klondike-tools/dash/tui/theme"
)

// New creates an empty styled table for the given theme.
func New(t *theme.Theme) *ltable.Table {
	if t == nil {
		t = theme.DefaultTheme
	}
	return ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(t.Colors.Border)).
		StyleFunc(func(row, col int) lipgloss.Style {
			// Headers set via .Headers() arrive as ltable.HeaderRow; data
			// rows count from 0.
			if row == ltable.HeaderRow {
				return t.TableHeader.Padding(0, 1)
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row%2 == 1 {
				return base.Background(t.Colors.SubtleBackground)
			}
			return base
		})
}

// Render is the one-shot form for static output.
func Render(t *theme.Theme, headers []string, rows [][]string) string {
	tbl := New(t).Headers(headers...)
	for _, row := range rows {
		tbl = tbl.Row(row...)
	}
	return tbl.Render()
}
