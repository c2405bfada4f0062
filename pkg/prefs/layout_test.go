package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widgetIDs(widgets []Widget) []string {
	ids := make([]string, len(widgets))
	for i, w := range widgets {
		ids[i] = w.ID
	}
	return ids
}

func assertDenseOrder(t *testing.T, widgets []Widget) {
	t.Helper()
	for i, w := range widgets {
		assert.Equal(t, i, w.Order, "widget %s at position %d", w.ID, i)
	}
}

func TestLayoutDefaults(t *testing.T) {
	s := newTestStorage(t)
	m := NewLayoutManager(s, testLogger())

	widgets := m.Current()
	require.NotEmpty(t, widgets)
	assertDenseOrder(t, widgets)
}

func TestLayoutReorderToFront(t *testing.T) {
	s := newTestStorage(t)
	m := NewLayoutManager(s, testLogger())

	widgets := m.Current()
	require.GreaterOrEqual(t, len(widgets), 3)
	a, b, c := widgets[0].ID, widgets[1].ID, widgets[2].ID

	m.Reorder(c, 0)

	got := widgetIDs(m.Current())
	assert.Equal(t, c, got[0])
	assert.Equal(t, a, got[1])
	assert.Equal(t, b, got[2])
	assertDenseOrder(t, m.Current())
}

func TestLayoutReorderClampsIndex(t *testing.T) {
	s := newTestStorage(t)
	m := NewLayoutManager(s, testLogger())

	first := m.Current()[0].ID
	m.Reorder(first, 99)

	widgets := m.Current()
	assert.Equal(t, first, widgets[len(widgets)-1].ID)
	assertDenseOrder(t, widgets)
}

func TestLayoutReorderUnknownIDIsNoOp(t *testing.T) {
	s := newTestStorage(t)
	m := NewLayoutManager(s, testLogger())

	before := widgetIDs(m.Current())
	m.Reorder("nope", 0)
	assert.Equal(t, before, widgetIDs(m.Current()))
}

func TestLayoutToggleAndSetSize(t *testing.T) {
	s := newTestStorage(t)
	m := NewLayoutManager(s, testLogger())

	id := m.Current()[0].ID
	wasVisible := m.Current()[0].Visible

	m.ToggleVisibility(id)
	assert.Equal(t, !wasVisible, m.Current()[0].Visible)

	m.SetSize(id, SizeFull)
	assert.Equal(t, SizeFull, m.Current()[0].Size)
	assertDenseOrder(t, m.Current())
}

func TestLayoutRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	m := NewLayoutManager(s, testLogger())

	widgets := m.Current()
	m.Reorder(widgets[2].ID, 0)
	m.ToggleVisibility(widgets[1].ID)
	m.SetSize(widgets[0].ID, SizeSmall)
	saved := m.Current()

	// A fresh manager over the same storage restores the identical layout.
	m2 := NewLayoutManager(s, testLogger())
	assert.Equal(t, saved, m2.Current())
}

func TestLayoutResetToDefaults(t *testing.T) {
	s := newTestStorage(t)
	m := NewLayoutManager(s, testLogger())

	m.Reorder(m.Current()[1].ID, 0)
	m.ResetToDefaults()

	assert.Equal(t, DefaultLayout(), m.Current())
}
