// Package paths provides XDG-compliant path resolution for dash.
//
// Resolution order:
// 1. DASH_HOME (portable root) → $DASH_HOME/{config,state,cache}
// 2. XDG env vars → $XDG_*_HOME/dash
// 3. Platform defaults → ~/.config/dash, ~/.local/state/dash, etc.
package paths

import (
	"os"
	"path/filepath"
)

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if dashHome := os.Getenv("DASH_HOME"); dashHome != "" {
		return filepath.Join(dashHome, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if dashHome := os.Getenv("DASH_HOME"); dashHome != "" {
		return filepath.Join(dashHome, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// getCacheHome returns the base cache home directory.
func getCacheHome() string {
	if dashHome := os.Getenv("DASH_HOME"); dashHome != "" {
		return filepath.Join(dashHome, "cache")
	}
	if xdgCacheHome := os.Getenv("XDG_CACHE_HOME"); xdgCacheHome != "" {
		return xdgCacheHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".cache")
	}
	return ""
}

// ConfigDir returns the dash configuration directory.
// Used for config files like dash.yml.
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "dash")
}

// StateDir returns the dash state directory.
// Used for persisted UI preferences and logs.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "dash")
}

// CacheDir returns the dash cache directory.
// Used for temporary/regenerable data.
func CacheDir() string {
	base := getCacheHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "dash")
}

// PrefsDir returns the directory holding persisted UI preference files
// (theme.json, layout.json, identity.json).
func PrefsDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "prefs")
}

// LogDir returns the directory holding client log files.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// EnsureDirs creates all dash directories if they don't exist.
func EnsureDirs() error {
	dirs := []string{
		ConfigDir(),
		StateDir(),
		CacheDir(),
		PrefsDir(),
		LogDir(),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
