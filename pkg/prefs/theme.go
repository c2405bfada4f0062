package prefs

import (
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"

	"github.com/klondike-tools/dash/pkg/store"
)

// ThemeMode selects between the light and dark palettes, or defers to the
// terminal background.
type ThemeMode string

const (
	ModeLight  ThemeMode = "light"
	ModeDark   ThemeMode = "dark"
	ModeSystem ThemeMode = "system"
)

// ThemeSettings is the persisted theme preference.
type ThemeSettings struct {
	Mode          ThemeMode `json:"mode"`
	AccentColorID string    `json:"accentColorId"`
	CustomAccent  string    `json:"customAccent,omitempty"`
}

// AccentColor is a named accent choice offered by the dashboard.
type AccentColor struct {
	ID  string
	Hex string
}

// AccentColors lists the built-in accent palette. CustomAccent overrides
// these when set.
var AccentColors = []AccentColor{
	{ID: "blue", Hex: "#7FB4CA"},
	{ID: "green", Hex: "#98BB6C"},
	{ID: "violet", Hex: "#957FB8"},
	{ID: "orange", Hex: "#FFA066"},
	{ID: "pink", Hex: "#D27E99"},
}

// DefaultThemeSettings returns the settings used before the user has
// customized anything.
func DefaultThemeSettings() ThemeSettings {
	return ThemeSettings{Mode: ModeSystem, AccentColorID: "blue"}
}

// ThemeManager holds the theme settings store and writes every mutation
// through to storage before notifying subscribers. A failed write is
// logged, never surfaced; the in-memory state still updates.
type ThemeManager struct {
	store   *store.Store[ThemeSettings]
	storage *Storage
	logger  *logrus.Entry

	// hasDarkBackground is swappable for tests.
	hasDarkBackground func() bool
}

// NewThemeManager loads the persisted settings (or defaults) into a new
// manager.
func NewThemeManager(storage *Storage, logger *logrus.Entry) *ThemeManager {
	settings := DefaultThemeSettings()
	if _, err := storage.Load(KeyTheme, &settings); err != nil {
		logger.WithError(err).Warn("Failed to load theme settings, using defaults")
		settings = DefaultThemeSettings()
	}
	if !settings.Mode.valid() {
		settings.Mode = ModeSystem
	}
	return &ThemeManager{
		store:             store.New(settings),
		storage:           storage,
		logger:            logger,
		hasDarkBackground: termenv.HasDarkBackground,
	}
}

func (m ThemeMode) valid() bool {
	switch m {
	case ModeLight, ModeDark, ModeSystem:
		return true
	}
	return false
}

// Current returns the active settings.
func (m *ThemeManager) Current() ThemeSettings {
	return m.store.Get()
}

// Subscribe registers a listener for settings changes. Consumers recompute
// their styles on every notification.
func (m *ThemeManager) Subscribe(fn func(ThemeSettings)) func() {
	return m.store.Subscribe(fn)
}

// SetMode switches the light/dark/system mode.
func (m *ThemeManager) SetMode(mode ThemeMode) {
	if !mode.valid() {
		return
	}
	m.mutate(func(s ThemeSettings) ThemeSettings {
		s.Mode = mode
		return s
	})
}

// SetAccent selects a built-in accent color by ID and clears any custom
// accent.
func (m *ThemeManager) SetAccent(id string) {
	m.mutate(func(s ThemeSettings) ThemeSettings {
		s.AccentColorID = id
		s.CustomAccent = ""
		return s
	})
}

// SetCustomAccent sets a custom accent hex, overriding the built-in choice.
func (m *ThemeManager) SetCustomAccent(hex string) {
	m.mutate(func(s ThemeSettings) ThemeSettings {
		s.CustomAccent = hex
		return s
	})
}

// ResetToDefaults restores the default settings. Idempotent.
func (m *ThemeManager) ResetToDefaults() {
	m.mutate(func(ThemeSettings) ThemeSettings {
		return DefaultThemeSettings()
	})
}

// Reload replaces the in-memory settings from storage. Used by the prefs
// watcher when another process rewrites the file.
func (m *ThemeManager) Reload() {
	settings := DefaultThemeSettings()
	if _, err := m.storage.Load(KeyTheme, &settings); err != nil {
		m.logger.WithError(err).Warn("Failed to reload theme settings")
		return
	}
	m.store.Set(settings)
}

// Dark resolves the effective dark/light choice, consulting the terminal
// background in system mode.
func (m *ThemeManager) Dark() bool {
	switch m.store.Get().Mode {
	case ModeDark:
		return true
	case ModeLight:
		return false
	}
	return m.hasDarkBackground()
}

// AccentHex returns the effective accent color.
func (m *ThemeManager) AccentHex() string {
	s := m.store.Get()
	if s.CustomAccent != "" {
		return s.CustomAccent
	}
	return AccentHexFor(s.AccentColorID)
}

// AccentHexFor resolves a built-in accent ID to its hex value, falling
// back to the first palette entry for unknown IDs.
func AccentHexFor(id string) string {
	for _, c := range AccentColors {
		if c.ID == id {
			return c.Hex
		}
	}
	return AccentColors[0].Hex
}

// mutate persists first, then updates the store and notifies.
func (m *ThemeManager) mutate(producer func(ThemeSettings) ThemeSettings) {
	next := producer(m.store.Get())
	if err := m.storage.Save(KeyTheme, next); err != nil {
		m.logger.WithError(err).Warn("Failed to persist theme settings")
	}
	m.store.Set(next)
}
