package dashboard

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/klondike-tools/dash/tui/keymap"
)

// KeyMap extends the shared bindings with dashboard-specific actions.
type KeyMap struct {
	keymap.Base

	Start  key.Binding
	Block  key.Binding
	Verify key.Binding

	FilterStatus   key.Binding
	FilterCategory key.Binding

	CycleTheme  key.Binding
	CycleAccent key.Binding

	HideWidget  key.Binding
	MoveLeft    key.Binding
	MoveRight   key.Binding
	GrowWidget  key.Binding
	ResetLayout key.Binding
}

// DefaultKeyMap returns the dashboard bindings with any keymap.toml
// overrides applied.
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		Base: keymap.NewBase(),
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start feature"),
		),
		Block: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "block feature"),
		),
		Verify: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "verify feature"),
		),
		FilterStatus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle status filter"),
		),
		FilterCategory: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cycle category filter"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle theme"),
		),
		CycleAccent: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("C-a", "cycle accent"),
		),
		HideWidget: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "hide widget"),
		),
		MoveLeft: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "move widget up"),
		),
		MoveRight: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "move widget down"),
		),
		GrowWidget: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "cycle widget size"),
		),
		ResetLayout: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "reset layout"),
		),
	}

	if overrides, err := keymap.LoadOverrides(); err == nil && overrides != nil {
		keymap.ApplyOverrides(&km, overrides)
	}
	return km
}

// ShortHelp returns keybindings shown in the compact footer help.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.NextTab, k.PrevTab},
		{k.Select, k.SelectAll, k.SelectNone, k.Search, k.FilterStatus, k.FilterCategory},
		{k.Start, k.Block, k.Verify, k.Refresh},
		{k.CycleTheme, k.CycleAccent, k.HideWidget, k.MoveLeft, k.MoveRight, k.GrowWidget},
		{k.ResetLayout, k.Help, k.Quit},
	}
}
