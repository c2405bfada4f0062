package theme

import "github.com/klondike-tools/dash/pkg/models"

// Status glyphs shown in tables and kanban column headers.
const (
	IconNotStarted = "○"
	IconInProgress = "◐"
	IconBlocked    = "⊘"
	IconVerified   = "●"
)

// Widget icons for the dashboard headers.
const (
	IconStatus   = ""
	IconKanban   = ""
	IconTable    = ""
	IconActivity = ""
	IconPresence = ""
	IconSession  = ""
)

// StatusIcon returns the glyph for a lifecycle state.
func StatusIcon(status models.FeatureStatus) string {
	switch status {
	case models.StatusInProgress:
		return IconInProgress
	case models.StatusBlocked:
		return IconBlocked
	case models.StatusVerified:
		return IconVerified
	default:
		return IconNotStarted
	}
}

// StatusBadge returns the glyph plus label, styled by the theme.
func (t *Theme) StatusBadge(status models.FeatureStatus) string {
	return t.StatusStyle(status).Render(StatusIcon(status) + " " + status.Label())
}
