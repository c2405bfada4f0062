// Package config loads dash.yml, the client's configuration file. The file
// is looked up in the working directory first and the XDG config dir
// second; values from the environment are expanded with ${VAR} syntax.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	dasherr "github.com/klondike-tools/dash/errors"
	"github.com/klondike-tools/dash/pkg/paths"
)

// FileName is the configuration file dash looks for.
const FileName = "dash.yml"

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads and parses a configuration file at an explicit path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, dasherr.ConfigNotFound(path)
		}
		return nil, dasherr.Wrap(err, dasherr.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration content, expands environment
// variables, validates it, and applies defaults.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, dasherr.Wrap(err, dasherr.ErrCodeConfigInvalid, "failed to parse config file")
	}

	if err := ValidateBytes([]byte(expanded)); err != nil {
		return nil, err
	}

	cfg.SetDefaults()
	return &cfg, nil
}

// LoadDefault finds and loads the configuration: dash.yml in the working
// directory wins; the XDG config dir copy is the fallback; with neither
// present, built-in defaults apply.
func LoadDefault() (*Config, error) {
	if path, ok := FindConfigFile(); ok {
		return Load(path)
	}

	cfg := &Config{}
	cfg.SetDefaults()
	return cfg, nil
}

// FindConfigFile returns the path of the first dash.yml found, checking
// the working directory then the XDG config dir.
func FindConfigFile() (string, bool) {
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}

	candidate := filepath.Join(paths.ConfigDir(), FileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, true
	}

	return "", false
}

// expandEnvVars substitutes ${VAR} references with environment values.
// Unset variables expand to the empty string.
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(name)
	})
}

// wsURL converts an http(s) base URL plus a path into a ws(s) URL.
func wsURL(base, path string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + path
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = path
	return u.String()
}
