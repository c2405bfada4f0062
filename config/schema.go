package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects the Config struct into the JSON Schema that
// tools/schema-generator writes out and schema embeds. The Extensions
// field is excluded; extension sections validate against their own
// tools' schemas.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	type BaseConfig struct {
		Version   string           `yaml:"version" jsonschema:"required,description=Configuration version (e.g. '1.0')"`
		Server    ServerConfig     `yaml:"server" jsonschema:"description=Tracker server endpoints"`
		Reconnect *ReconnectConfig `yaml:"reconnect,omitempty" jsonschema:"description=Live channel retry tuning"`
		Presence  *PresenceConfig  `yaml:"presence,omitempty" jsonschema:"description=Presence announcement settings"`
		Bulk      *BulkConfig      `yaml:"bulk,omitempty" jsonschema:"description=Bulk action settings"`
		TUI       *TUIConfig       `yaml:"tui,omitempty" jsonschema:"description=Dashboard defaults"`
		LogLevel  string           `yaml:"log_level,omitempty" jsonschema:"description=Log level: debug, info, warn, error"`
	}

	schema := r.Reflect(&BaseConfig{})
	schema.Title = "Dash Configuration"
	schema.Description = "Schema for dash.yml properties."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
