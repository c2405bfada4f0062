package prefs

import (
	"io"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("component", "test")
}

func TestThemeManagerDefaults(t *testing.T) {
	s := newTestStorage(t)
	m := NewThemeManager(s, testLogger())

	cur := m.Current()
	assert.Equal(t, ModeSystem, cur.Mode)
	assert.Equal(t, "blue", cur.AccentColorID)
}

func TestThemeManagerWriteThroughAndReload(t *testing.T) {
	s := newTestStorage(t)
	m := NewThemeManager(s, testLogger())

	m.SetMode(ModeDark)
	m.SetAccent("violet")

	// A second manager over the same storage sees the persisted state,
	// simulating a page reload.
	m2 := NewThemeManager(s, testLogger())
	cur := m2.Current()
	assert.Equal(t, ModeDark, cur.Mode)
	assert.Equal(t, "violet", cur.AccentColorID)
}

func TestThemeManagerResetIdempotent(t *testing.T) {
	s := newTestStorage(t)
	m := NewThemeManager(s, testLogger())

	m.SetMode(ModeDark)
	m.SetCustomAccent("#123456")

	m.ResetToDefaults()
	first := m.Current()
	m.ResetToDefaults()
	second := m.Current()

	assert.Equal(t, first, second)
	assert.Equal(t, DefaultThemeSettings(), second)
}

func TestThemeManagerNotifiesOnEveryMutation(t *testing.T) {
	s := newTestStorage(t)
	m := NewThemeManager(s, testLogger())

	var modes []ThemeMode
	m.Subscribe(func(settings ThemeSettings) { modes = append(modes, settings.Mode) })

	m.SetMode(ModeLight)
	m.SetMode(ModeDark)

	assert.Equal(t, []ThemeMode{ModeLight, ModeDark}, modes)
}

func TestThemeManagerFailedPersistStillUpdatesMemory(t *testing.T) {
	s := newTestStorage(t)
	m := NewThemeManager(s, testLogger())

	// Make the storage directory unwritable so Save fails.
	require.NoError(t, os.RemoveAll(s.Dir()))

	m.SetMode(ModeDark)
	assert.Equal(t, ModeDark, m.Current().Mode)
}

func TestThemeManagerDarkResolution(t *testing.T) {
	s := newTestStorage(t)
	m := NewThemeManager(s, testLogger())

	m.SetMode(ModeDark)
	assert.True(t, m.Dark())

	m.SetMode(ModeLight)
	assert.False(t, m.Dark())

	m.SetMode(ModeSystem)
	m.hasDarkBackground = func() bool { return true }
	assert.True(t, m.Dark())
}

func TestThemeManagerAccentHex(t *testing.T) {
	s := newTestStorage(t)
	m := NewThemeManager(s, testLogger())

	m.SetAccent("green")
	assert.Equal(t, "#98BB6C", m.AccentHex())

	m.SetCustomAccent("#ABCDEF")
	assert.Equal(t, "#ABCDEF", m.AccentHex())

	// Selecting a built-in accent clears the custom one.
	m.SetAccent("blue")
	assert.Equal(t, "#7FB4CA", m.AccentHex())
}
