package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klondike-tools/dash/pkg/models"
)

func TestTimerApplyActiveSession(t *testing.T) {
	tm := NewTimer()
	defer tm.Close()

	start := time.Now().Add(-90 * time.Second)
	tm.now = func() time.Time { return start.Add(90 * time.Second) }

	tm.Apply(&models.Session{
		SessionNumber: 4,
		Focus:         "wire up presence",
		StartedAt:     start.Format(time.RFC3339),
		Active:        true,
	})

	snap := tm.Snapshot()
	assert.True(t, snap.Active)
	assert.Equal(t, 4, snap.SessionNumber)
	assert.Equal(t, "wire up presence", snap.Focus)
	// RFC3339 round-trip truncates to seconds.
	assert.InDelta(t, 90, snap.Elapsed.Seconds(), 1)
}

func TestTimerApplyInactiveResets(t *testing.T) {
	tm := NewTimer()
	defer tm.Close()

	tm.Apply(&models.Session{SessionNumber: 1, Active: true, StartedAt: time.Now().Format(time.RFC3339)})
	require.True(t, tm.Snapshot().Active)

	tm.Apply(&models.Session{SessionNumber: 1, Active: false})
	snap := tm.Snapshot()
	assert.False(t, snap.Active)
	assert.Zero(t, snap.SessionNumber)

	tm.Apply(nil)
	assert.False(t, tm.Snapshot().Active)
}

func TestTimerReplacedSessionRestartsElapsed(t *testing.T) {
	tm := NewTimer()
	defer tm.Close()

	now := time.Now()
	tm.now = func() time.Time { return now }

	tm.Apply(&models.Session{SessionNumber: 1, Active: true, StartedAt: now.Add(-time.Hour).Format(time.RFC3339)})
	require.InDelta(t, time.Hour.Seconds(), tm.Snapshot().Elapsed.Seconds(), 1)

	tm.Apply(&models.Session{SessionNumber: 2, Active: true, StartedAt: now.Format(time.RFC3339)})
	assert.InDelta(t, 0, tm.Snapshot().Elapsed.Seconds(), 1)
	assert.Equal(t, 2, tm.Snapshot().SessionNumber)
}

func TestTimerNotifiesSubscribers(t *testing.T) {
	tm := NewTimer()
	defer tm.Close()

	var snaps []TimerSnapshot
	tm.Subscribe(func(s TimerSnapshot) { snaps = append(snaps, s) })

	tm.Apply(&models.Session{SessionNumber: 1, Active: true, StartedAt: time.Now().Format(time.RFC3339)})
	require.NotEmpty(t, snaps)
	assert.True(t, snaps[len(snaps)-1].Active)
}
