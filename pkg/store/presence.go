package store

import (
	"sort"
	"time"

	"github.com/klondike-tools/dash/pkg/models"
)

// Roster holds the set of remote users currently viewing the dashboard.
// The local user's own ID is filtered out on every update path. Removal
// normally happens only via an explicit userLeft message; when Expiry is
// non-zero, Prune additionally drops entries whose last-seen timestamp is
// older than the window (tabs that crashed without a clean close).
type Roster struct {
	store  *Store[map[string]models.Presence]
	selfID string
	expiry time.Duration
	now    func() time.Time
}

// NewRoster creates an empty roster. selfID is the local user's ID; expiry
// of zero disables staleness pruning.
func NewRoster(selfID string, expiry time.Duration) *Roster {
	return &Roster{
		store:  New(map[string]models.Presence{}),
		selfID: selfID,
		expiry: expiry,
		now:    time.Now,
	}
}

// Apply processes one inbound presence message.
func (r *Roster) Apply(msg models.PresenceMessage) {
	switch msg.Type {
	case models.PresenceMsgUpdate:
		if msg.User != nil {
			r.upsert(*msg.User)
		}
	case models.PresenceMsgList:
		r.replace(msg.Users)
	case models.PresenceMsgLeft:
		if msg.UserID != "" {
			r.remove(msg.UserID)
		}
	}
	// Unrecognized types are ignored silently.
}

func (r *Roster) upsert(p models.Presence) {
	if p.ID == "" || p.ID == r.selfID {
		return
	}
	if p.LastSeenMs == 0 {
		p.LastSeenMs = r.now().UnixMilli()
	}
	r.store.Update(func(prev map[string]models.Presence) map[string]models.Presence {
		next := clonePresence(prev)
		next[p.ID] = p
		return next
	})
}

func (r *Roster) replace(users []models.Presence) {
	next := make(map[string]models.Presence, len(users))
	for _, p := range users {
		if p.ID == "" || p.ID == r.selfID {
			continue
		}
		if p.LastSeenMs == 0 {
			p.LastSeenMs = r.now().UnixMilli()
		}
		next[p.ID] = p
	}
	r.store.Set(next)
}

func (r *Roster) remove(id string) {
	r.store.Update(func(prev map[string]models.Presence) map[string]models.Presence {
		if _, ok := prev[id]; !ok {
			return prev
		}
		next := clonePresence(prev)
		delete(next, id)
		return next
	})
}

// Prune drops entries older than the expiry window. No-op when expiry is
// disabled or nothing is stale.
func (r *Roster) Prune() {
	if r.expiry <= 0 {
		return
	}
	cutoff := r.now().Add(-r.expiry).UnixMilli()
	cur := r.store.Get()
	stale := false
	for _, p := range cur {
		if p.LastSeenMs < cutoff {
			stale = true
			break
		}
	}
	if !stale {
		return
	}
	r.store.Update(func(prev map[string]models.Presence) map[string]models.Presence {
		next := make(map[string]models.Presence, len(prev))
		for id, p := range prev {
			if p.LastSeenMs >= cutoff {
				next[id] = p
			}
		}
		return next
	})
}

// All returns the roster sorted by display name, then ID.
func (r *Roster) All() []models.Presence {
	cur := r.store.Get()
	out := make([]models.Presence, 0, len(cur))
	for _, p := range cur {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Count returns the number of remote users present.
func (r *Roster) Count() int {
	return len(r.store.Get())
}

// Subscribe registers a listener for roster changes.
func (r *Roster) Subscribe(fn func(map[string]models.Presence)) func() {
	return r.store.Subscribe(fn)
}

func clonePresence(prev map[string]models.Presence) map[string]models.Presence {
	next := make(map[string]models.Presence, len(prev))
	for id, p := range prev {
		next[id] = p
	}
	return next
}
