package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemaCompiles(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)
	require.NotNil(t, v)
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	err = v.Validate(map[string]interface{}{
		"version": "1.0",
		"server": map[string]interface{}{
			"url":             "http://localhost:8081",
			"request_timeout": "10s",
		},
		"tui": map[string]interface{}{
			"theme": "dark",
		},
	})
	assert.NoError(t, err)
}

func TestValidateRejectsUnknownServerField(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	err = v.Validate(map[string]interface{}{
		"version": "1.0",
		"server": map[string]interface{}{
			"host": "localhost",
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestValidateRejectsBadDuration(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	err = v.Validate(map[string]interface{}{
		"version": "1.0",
		"server": map[string]interface{}{
			"request_timeout": "ten seconds",
		},
	})
	assert.Error(t, err)
}
