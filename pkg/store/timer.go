package store

import (
	"sync"
	"time"

	"github.com/klondike-tools/dash/pkg/models"
)

// TimerSnapshot is the current session timer state. It is reconstructed
// from the latest server-reported session fields and never persisted.
type TimerSnapshot struct {
	SessionNumber int
	Focus         string
	StartedAt     time.Time
	Active        bool
	Elapsed       time.Duration
}

// Timer keeps a TimerSnapshot store current. While a session is active an
// internal one-second ticker recomputes Elapsed from the fixed start time
// and the wall clock; the ticker is torn down when the session goes
// inactive or is replaced.
type Timer struct {
	store *Store[TimerSnapshot]

	mu   sync.Mutex
	stop chan struct{}
	now  func() time.Time
}

// NewTimer creates an inactive timer.
func NewTimer() *Timer {
	return &Timer{
		store: New(TimerSnapshot{}),
		now:   time.Now,
	}
}

// Apply reconstructs the snapshot from the latest server-reported session.
// A nil session or an inactive one stops the ticker.
func (t *Timer) Apply(session *models.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if session == nil || !session.Active {
		t.stopLocked()
		t.store.Set(TimerSnapshot{})
		return
	}

	cur := t.store.Get()
	start := session.StartTime()
	replaced := cur.SessionNumber != session.SessionNumber || !cur.StartedAt.Equal(start)

	snap := TimerSnapshot{
		SessionNumber: session.SessionNumber,
		Focus:         session.Focus,
		StartedAt:     start,
		Active:        true,
		Elapsed:       t.elapsedSince(start),
	}
	t.store.Set(snap)

	if replaced {
		t.stopLocked()
		t.startLocked()
	} else if t.stop == nil {
		t.startLocked()
	}
}

// Snapshot returns the current timer state.
func (t *Timer) Snapshot() TimerSnapshot {
	return t.store.Get()
}

// Subscribe registers a listener for timer updates, including the
// once-per-second elapsed recomputation while active.
func (t *Timer) Subscribe(fn func(TimerSnapshot)) func() {
	return t.store.Subscribe(fn)
}

// Close stops the ticker. The snapshot is left as-is.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Timer) startLocked() {
	stop := make(chan struct{})
	t.stop = stop
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.tick()
			case <-stop:
				return
			}
		}
	}()
}

func (t *Timer) stopLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *Timer) tick() {
	t.store.Update(func(prev TimerSnapshot) TimerSnapshot {
		if !prev.Active {
			return prev
		}
		prev.Elapsed = t.elapsedSince(prev.StartedAt)
		return prev
	})
}

func (t *Timer) elapsedSince(start time.Time) time.Duration {
	if start.IsZero() {
		return 0
	}
	d := t.now().Sub(start)
	if d < 0 {
		return 0
	}
	return d.Truncate(time.Second)
}
