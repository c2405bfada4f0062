package config

import (
	"gopkg.in/yaml.v3"

	dasherr "github.com/klondike-tools/dash/errors"
	"github.com/klondike-tools/dash/schema"
)

// recognizedKeys are the top-level sections owned by dash itself. Anything
// else is an extension section and exempt from schema validation.
var recognizedKeys = map[string]bool{
	"version":   true,
	"server":    true,
	"reconnect": true,
	"presence":  true,
	"bulk":      true,
	"tui":       true,
	"log_level": true,
}

// ValidateBytes checks raw configuration content against the embedded
// JSON Schema. Extension sections are stripped first; their shape belongs
// to the tools that own them.
func ValidateBytes(data []byte) error {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return dasherr.Wrap(err, dasherr.ErrCodeConfigInvalid, "failed to parse config file")
	}
	if raw == nil {
		return nil
	}

	own := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		if recognizedKeys[key] {
			own[key] = value
		}
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return dasherr.Wrap(err, dasherr.ErrCodeConfigValidation, "failed to load config schema")
	}
	if err := validator.Validate(own); err != nil {
		return dasherr.Wrap(err, dasherr.ErrCodeConfigValidation, "config file failed validation")
	}
	return nil
}
