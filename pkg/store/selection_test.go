package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionToggle(t *testing.T) {
	sel := NewSelection()

	sel.Toggle("F001")
	assert.True(t, sel.Has("F001"))
	assert.Equal(t, 1, sel.Len())

	sel.Toggle("F001")
	assert.False(t, sel.Has("F001"))
	assert.Equal(t, 0, sel.Len())
}

func TestSelectionSelectAllReplacesWholesale(t *testing.T) {
	sel := NewSelection()
	sel.Toggle("F009")

	sel.SelectAll([]string{"F001", "F002", "F003"})

	assert.False(t, sel.Has("F009"))
	assert.Equal(t, []string{"F001", "F002", "F003"}, sel.IDs())
}

func TestSelectionClearAfterFilterChange(t *testing.T) {
	sel := NewSelection()
	sel.Toggle("A")
	sel.Toggle("B")

	// A filter change in a list view clears the selection regardless of
	// its prior contents.
	sel.Clear()

	assert.Equal(t, 0, sel.Len())
	assert.Empty(t, sel.IDs())
}

func TestSelectionNotifiesSubscribers(t *testing.T) {
	sel := NewSelection()

	var sizes []int
	sel.Subscribe(func(cur map[string]struct{}) { sizes = append(sizes, len(cur)) })

	sel.Toggle("A")
	sel.SelectAll([]string{"A", "B"})
	sel.Clear()

	assert.Equal(t, []int{1, 2, 0}, sizes)
}
