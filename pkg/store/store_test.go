package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreNotifiesEachSubscriberOncePerMutation(t *testing.T) {
	s := New(0)

	var first, second []int
	s.Subscribe(func(v int) { first = append(first, v) })
	s.Subscribe(func(v int) { second = append(second, v) })

	s.Set(1)
	s.Set(2)
	s.Update(func(prev int) int { return prev + 10 })

	assert.Equal(t, []int{1, 2, 12}, first)
	assert.Equal(t, []int{1, 2, 12}, second)
	assert.Equal(t, 12, s.Get())
}

func TestStoreValueVisibleToListeners(t *testing.T) {
	s := New("")

	var seen string
	s.Subscribe(func(string) {
		// Get must reflect the new value by the time listeners run.
		seen = s.Get()
	})

	s.Set("fresh")
	assert.Equal(t, "fresh", seen)
}

func TestStoreNotifiesInRegistrationOrder(t *testing.T) {
	s := New(0)

	var order []string
	s.Subscribe(func(int) { order = append(order, "a") })
	s.Subscribe(func(int) { order = append(order, "b") })
	s.Subscribe(func(int) { order = append(order, "c") })

	s.Set(1)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestStoreUnsubscribeStopsNotifications(t *testing.T) {
	s := New(0)

	calls := 0
	unsubscribe := s.Subscribe(func(int) { calls++ })

	s.Set(1)
	unsubscribe()
	s.Set(2)

	assert.Equal(t, 1, calls)

	// A second unsubscribe is a no-op.
	unsubscribe()
	s.Set(3)
	assert.Equal(t, 1, calls)
}

func TestStorePanickingListenerDoesNotSuppressOthers(t *testing.T) {
	s := New(0)

	var after []int
	s.Subscribe(func(int) { panic("broken subscriber") })
	s.Subscribe(func(v int) { after = append(after, v) })

	require.NotPanics(t, func() { s.Set(7) })
	assert.Equal(t, []int{7}, after)
}

func TestStoreSubscriberAddedLaterMissesEarlierMutations(t *testing.T) {
	s := New(0)
	s.Set(1)

	var got []int
	s.Subscribe(func(v int) { got = append(got, v) })

	s.Set(2)
	assert.Equal(t, []int{2}, got)
}
