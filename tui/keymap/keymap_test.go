package keymap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamelToSnake(t *testing.T) {
	assert.Equal(t, "select_all", camelToSnake("SelectAll"))
	assert.Equal(t, "page_up", camelToSnake("PageUp"))
	assert.Equal(t, "up", camelToSnake("Up"))
}

func TestApplyOverrides(t *testing.T) {
	km := NewBase()
	ApplyOverrides(&km, Overrides{
		"select_all": {"ctrl+a"},
		"quit":       {"Q"},
	})

	assert.Equal(t, []string{"ctrl+a"}, km.SelectAll.Keys())
	assert.Equal(t, []string{"Q"}, km.Quit.Keys())
	// Help text survives the override.
	assert.Equal(t, "select all", km.SelectAll.Help().Desc)
	// Untouched bindings keep their defaults.
	assert.Equal(t, []string{"k", "up"}, km.Up.Keys())
}

func TestApplyOverridesNilAndNonPointer(t *testing.T) {
	km := NewBase()
	ApplyOverrides(&km, nil)
	assert.Equal(t, []string{"q", "ctrl+c"}, km.Quit.Keys())

	// Passing a non-pointer is a no-op, not a panic.
	ApplyOverrides(km, Overrides{"quit": {"x"}})
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, OverridesFile)
	require.NoError(t, os.WriteFile(path, []byte("select_all = [\"ctrl+a\"]\nquit = [\"Q\", \"ctrl+q\"]\n"), 0644))

	overrides, err := loadOverridesFrom(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ctrl+a"}, overrides["select_all"])
	assert.Equal(t, []string{"Q", "ctrl+q"}, overrides["quit"])
}

func TestLoadOverridesMissingFile(t *testing.T) {
	overrides, err := loadOverridesFrom(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Nil(t, overrides)
}
