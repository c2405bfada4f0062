// Package theme provides the dashboard's lipgloss styles. A Theme is
// recomputed from the persisted theme settings whenever they change:
// mode picks the light or dark palette (system defers to terminal
// background detection) and the accent color threads through the
// highlighted styles.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/klondike-tools/dash/pkg/models"
	"github.com/klondike-tools/dash/pkg/prefs"
)

// --- Dark palette (Kanagawa Dragon derived) ---
const (
	darkGreen              = "#98BB6C"
	darkYellow             = "#FF9E3B"
	darkRed                = "#FF5D62"
	darkOrange             = "#FFA066"
	darkCyan               = "#7E9CD8"
	darkBlue               = "#7FB4CA"
	darkViolet             = "#957FB8"
	darkPink               = "#D27E99"
	darkLightText          = "#DCD7BA"
	darkMutedText          = "#727169"
	darkBorder             = "#363646"
	darkSelectedBackground = "#223249"
	darkSubtleBackground   = "#1F1F28"
)

// --- Light palette ---
const (
	lightGreen              = "#4E7C5A"
	lightYellow             = "#A68A64"
	lightRed                = "#C34043"
	lightOrange             = "#CC6B4E"
	lightCyan               = "#5B8BBE"
	lightBlue               = "#4F7CAC"
	lightViolet             = "#674D7A"
	lightPink               = "#B35C74"
	lightLightText          = "#2B2F42"
	lightMutedText          = "#6C7086"
	lightBorder             = "#B5BDC5"
	lightSelectedBackground = "#E2E6F3"
	lightSubtleBackground   = "#F7F7FB"
)

// Colors is the resolved palette for one mode.
type Colors struct {
	Green              lipgloss.TerminalColor
	Yellow             lipgloss.TerminalColor
	Red                lipgloss.TerminalColor
	Orange             lipgloss.TerminalColor
	Cyan               lipgloss.TerminalColor
	Blue               lipgloss.TerminalColor
	Violet             lipgloss.TerminalColor
	Pink               lipgloss.TerminalColor
	LightText          lipgloss.TerminalColor
	MutedText          lipgloss.TerminalColor
	Border             lipgloss.TerminalColor
	SelectedBackground lipgloss.TerminalColor
	SubtleBackground   lipgloss.TerminalColor
	Accent             lipgloss.TerminalColor
}

// Theme holds the pre-configured styles for the dashboard.
type Theme struct {
	Colors Colors
	Dark   bool

	Header lipgloss.Style
	Title  lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Bold     lipgloss.Style
	Normal   lipgloss.Style
	Italic   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style

	TableHeader lipgloss.Style
	TableBorder lipgloss.Style

	Box        lipgloss.Style
	DetailsBox lipgloss.Style

	Highlight lipgloss.Style
	Accent    lipgloss.Style

	// Lifecycle styles, keyed by feature status in column order.
	NotStarted lipgloss.Style
	InProgress lipgloss.Style
	Blocked    lipgloss.Style
	Verified   lipgloss.Style
}

func darkColors() Colors {
	return Colors{
		Green:              lipgloss.Color(darkGreen),
		Yellow:             lipgloss.Color(darkYellow),
		Red:                lipgloss.Color(darkRed),
		Orange:             lipgloss.Color(darkOrange),
		Cyan:               lipgloss.Color(darkCyan),
		Blue:               lipgloss.Color(darkBlue),
		Violet:             lipgloss.Color(darkViolet),
		Pink:               lipgloss.Color(darkPink),
		LightText:          lipgloss.Color(darkLightText),
		MutedText:          lipgloss.Color(darkMutedText),
		Border:             lipgloss.Color(darkBorder),
		SelectedBackground: lipgloss.Color(darkSelectedBackground),
		SubtleBackground:   lipgloss.Color(darkSubtleBackground),
	}
}

func lightColors() Colors {
	return Colors{
		Green:              lipgloss.Color(lightGreen),
		Yellow:             lipgloss.Color(lightYellow),
		Red:                lipgloss.Color(lightRed),
		Orange:             lipgloss.Color(lightOrange),
		Cyan:               lipgloss.Color(lightCyan),
		Blue:               lipgloss.Color(lightBlue),
		Violet:             lipgloss.Color(lightViolet),
		Pink:               lipgloss.Color(lightPink),
		LightText:          lipgloss.Color(lightLightText),
		MutedText:          lipgloss.Color(lightMutedText),
		Border:             lipgloss.Color(lightBorder),
		SelectedBackground: lipgloss.Color(lightSelectedBackground),
		SubtleBackground:   lipgloss.Color(lightSubtleBackground),
	}
}

// FromSettings builds a theme from persisted settings. dark is the
// resolved mode (the caller applies system-mode background detection).
func FromSettings(settings prefs.ThemeSettings, dark bool) *Theme {
	colors := lightColors()
	if dark {
		colors = darkColors()
	}

	accent := settings.CustomAccent
	if accent == "" {
		accent = prefs.AccentHexFor(settings.AccentColorID)
	}
	colors.Accent = lipgloss.Color(accent)

	return newThemeFromColors(colors, dark)
}

// Default builds a theme from default settings and terminal detection.
// Used by code paths that run before preferences are loaded.
func Default() *Theme {
	return FromSettings(prefs.DefaultThemeSettings(), termenv.HasDarkBackground())
}

// DefaultTheme is the package-level theme used by non-TUI output (the log
// formatter, styled help). The dashboard builds its own from settings.
var DefaultTheme = Default()

func newThemeFromColors(colors Colors, dark bool) *Theme {
	return &Theme{
		Colors: colors,
		Dark:   dark,

		Header: lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			MarginBottom(1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			MarginBottom(1),

		Success: lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(colors.Red).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(colors.Yellow).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(colors.Cyan).
			Bold(true),

		Bold: lipgloss.NewStyle().
			Bold(true),

		Normal: lipgloss.NewStyle(),

		Italic: lipgloss.NewStyle().
			Italic(true),

		Muted: lipgloss.NewStyle().
			Foreground(colors.MutedText),

		Selected: lipgloss.NewStyle().
			Background(colors.SelectedBackground).
			Foreground(colors.LightText),

		TableHeader: lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colors.Border),

		TableBorder: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1),

		DetailsBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colors.Accent).
			Padding(0, 1),

		Highlight: lipgloss.NewStyle().
			Foreground(colors.Orange).
			Bold(true),

		Accent: lipgloss.NewStyle().
			Foreground(colors.Accent).
			Bold(true),

		NotStarted: lipgloss.NewStyle().
			Foreground(colors.MutedText),

		InProgress: lipgloss.NewStyle().
			Foreground(colors.Yellow).
			Bold(true),

		Blocked: lipgloss.NewStyle().
			Foreground(colors.Red).
			Bold(true),

		Verified: lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true),
	}
}

// StatusStyle returns the style for a lifecycle state.
func (t *Theme) StatusStyle(status models.FeatureStatus) lipgloss.Style {
	switch status {
	case models.StatusInProgress:
		return t.InProgress
	case models.StatusBlocked:
		return t.Blocked
	case models.StatusVerified:
		return t.Verified
	default:
		return t.NotStarted
	}
}

// RenderStatus renders text with the appropriate lifecycle style.
func (t *Theme) RenderStatus(status models.FeatureStatus, text string) string {
	return t.StatusStyle(status).Render(text)
}

// NormalizeMode maps loose user input to a theme mode.
func NormalizeMode(name string) prefs.ThemeMode {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light":
		return prefs.ModeLight
	case "dark":
		return prefs.ModeDark
	default:
		return prefs.ModeSystem
	}
}
