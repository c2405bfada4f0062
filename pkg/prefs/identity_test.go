package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIdentityGeneratesAndPersists(t *testing.T) {
	s := newTestStorage(t)

	id, err := LoadIdentity(s, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", id.DisplayName)
	assert.NotEmpty(t, id.Color)

	// Second load returns the cached identity, color included.
	again, err := LoadIdentity(s, "someone-else")
	require.NoError(t, err)
	assert.Equal(t, id, again)
}
