package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

//go:generate go run ../tools/schema-generator/

// ServerConfig describes how to reach the tracker server.
type ServerConfig struct {
	URL            string `yaml:"url" jsonschema:"description=Base URL of the tracker server (e.g. http://localhost:8081)"`
	UpdatesPath    string `yaml:"updates_path,omitempty" jsonschema:"description=WebSocket path for change notifications (default /api/updates)"`
	PresencePath   string `yaml:"presence_path,omitempty" jsonschema:"description=WebSocket path for presence (default /ws/presence)"`
	RequestTimeout string `yaml:"request_timeout,omitempty" jsonschema:"description=Per-request timeout as a Go duration (default 10s)"`
}

// ReconnectConfig tunes the live channel retry behavior.
type ReconnectConfig struct {
	BaseDelay string `yaml:"base_delay,omitempty" jsonschema:"description=First retry delay as a Go duration (default 1s)"`
	MaxDelay  string `yaml:"max_delay,omitempty" jsonschema:"description=Backoff cap as a Go duration (default 30s)"`
}

// PresenceConfig controls the local user's presence announcement.
type PresenceConfig struct {
	DisplayName string `yaml:"display_name,omitempty" jsonschema:"description=Name shown to other users (default: OS username)"`
	Expiry      string `yaml:"expiry,omitempty" jsonschema:"description=Drop roster entries not seen for this long; 0 disables (default 0)"`
}

// BulkConfig bounds bulk action parallelism.
type BulkConfig struct {
	Concurrency int `yaml:"concurrency,omitempty" jsonschema:"description=Max parallel requests for bulk actions (default 4)"`
}

// TUIConfig carries dashboard defaults; runtime preference files override it.
type TUIConfig struct {
	Theme  string `yaml:"theme,omitempty" jsonschema:"description=Default theme mode: light, dark, or system"`
	Accent string `yaml:"accent,omitempty" jsonschema:"description=Default accent color id"`
}

// Config is the parsed dash.yml.
type Config struct {
	Version   string           `yaml:"version" jsonschema:"required,description=Configuration version (e.g. '1.0')"`
	Server    ServerConfig     `yaml:"server" jsonschema:"description=Tracker server endpoints"`
	Reconnect *ReconnectConfig `yaml:"reconnect,omitempty" jsonschema:"description=Live channel retry tuning"`
	Presence  *PresenceConfig  `yaml:"presence,omitempty" jsonschema:"description=Presence announcement settings"`
	Bulk      *BulkConfig      `yaml:"bulk,omitempty" jsonschema:"description=Bulk action settings"`
	TUI       *TUIConfig       `yaml:"tui,omitempty" jsonschema:"description=Dashboard defaults"`
	LogLevel  string           `yaml:"log_level,omitempty" jsonschema:"description=Log level: debug, info, warn, error"`

	// Extensions holds unrecognized top-level sections so companion tools
	// can store their own settings in the same file.
	Extensions map[string]interface{} `yaml:",inline" jsonschema:"-"`
}

// Duration accessors resolve the string fields with their defaults. Bad
// values fall back to the default rather than failing; validation reports
// them separately.

const (
	defaultRequestTimeout = 10 * time.Second
	defaultBaseDelay      = time.Second
	defaultMaxDelay       = 30 * time.Second
	defaultConcurrency    = 4
)

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// RequestTimeout returns the per-request HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return parseDuration(c.Server.RequestTimeout, defaultRequestTimeout)
}

// ReconnectBaseDelay returns the first live-channel retry delay.
func (c *Config) ReconnectBaseDelay() time.Duration {
	if c.Reconnect == nil {
		return defaultBaseDelay
	}
	return parseDuration(c.Reconnect.BaseDelay, defaultBaseDelay)
}

// ReconnectMaxDelay returns the live-channel backoff cap.
func (c *Config) ReconnectMaxDelay() time.Duration {
	if c.Reconnect == nil {
		return defaultMaxDelay
	}
	return parseDuration(c.Reconnect.MaxDelay, defaultMaxDelay)
}

// PresenceExpiry returns the roster staleness window; 0 disables pruning.
func (c *Config) PresenceExpiry() time.Duration {
	if c.Presence == nil {
		return 0
	}
	return parseDuration(c.Presence.Expiry, 0)
}

// BulkConcurrency returns the bulk action parallelism bound.
func (c *Config) BulkConcurrency() int {
	if c.Bulk == nil || c.Bulk.Concurrency <= 0 {
		return defaultConcurrency
	}
	return c.Bulk.Concurrency
}

// UpdatesURL builds the ws:// URL for the update channel.
func (c *Config) UpdatesURL() string {
	path := c.Server.UpdatesPath
	if path == "" {
		path = "/api/updates"
	}
	return wsURL(c.Server.URL, path)
}

// PresenceURL builds the ws:// URL for the presence channel.
func (c *Config) PresenceURL() string {
	path := c.Server.PresencePath
	if path == "" {
		path = "/ws/presence"
	}
	return wsURL(c.Server.URL, path)
}

// SetDefaults fills zero values with working defaults.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Server.URL == "" {
		c.Server.URL = "http://localhost:8081"
	}
}

// UnmarshalExtension decodes one extension section of dash.yml into the
// provided target struct. The target must be a pointer. A missing key
// leaves the target zero-valued.
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
