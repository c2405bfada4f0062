// Package mutate wraps server mutations with optimistic local state:
// the feature list store is updated speculatively before the request is
// issued, and restored if the server rejects it. The user either sees a
// confirmed change or the exact pre-mutation state, never a phantom
// success.
package mutate

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/sirupsen/logrus"

	dasherr "github.com/klondike-tools/dash/errors"
	"github.com/klondike-tools/dash/pkg/models"
	"github.com/klondike-tools/dash/pkg/store"
)

// API is the slice of the server client the mutator needs.
type API interface {
	StartFeature(ctx context.Context, id string) error
	BlockFeature(ctx context.Context, id, reason string) error
	VerifyFeature(ctx context.Context, id, evidence string) error
	ReorderFeatures(ctx context.Context, order []models.ReorderItem) error
}

// Notifier receives the transient user-facing notices a mutation produces.
// The TUI shows them as flash messages, the CLI prints them.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// inflightSet tracks entities with an unresolved mutation. It is shared by
// pointer so derived mutators (bulk's silent clone) honor the same guard.
type inflightSet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func (s *inflightSet) acquire(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.keys[key]; busy {
		return dasherr.MutationInFlight(key)
	}
	s.keys[key] = struct{}{}
	return nil
}

func (s *inflightSet) release(key string) {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
}

// Mutator applies optimistic mutations to the shared feature list store.
type Mutator struct {
	api      API
	features *store.Store[[]models.Feature]
	notifier Notifier
	log      *logrus.Entry
	inflight *inflightSet
}

// NewMutator wires a mutator over the given store. All mutations issued
// through it share one in-flight registry, so a second mutation on an
// entity whose first has not resolved is rejected.
func NewMutator(api API, features *store.Store[[]models.Feature], notifier Notifier, log *logrus.Entry) *Mutator {
	return &Mutator{
		api:      api,
		features: features,
		notifier: notifier,
		log:      log,
		inflight: &inflightSet{keys: make(map[string]struct{})},
	}
}

// silent returns a mutator that shares state but emits no notices.
func (m *Mutator) silent() *Mutator {
	clone := *m
	clone.notifier = silentNotifier{}
	return &clone
}

// Start optimistically moves a feature to in-progress.
func (m *Mutator) Start(ctx context.Context, id string) error {
	return m.mutateFeature(ctx, id, "Started "+id,
		func(f *models.Feature) {
			f.Status = models.StatusInProgress
		},
		func(ctx context.Context) error {
			return m.api.StartFeature(ctx, id)
		})
}

// Block optimistically marks a feature blocked.
func (m *Mutator) Block(ctx context.Context, id, reason string) error {
	return m.mutateFeature(ctx, id, "Blocked "+id,
		func(f *models.Feature) {
			f.Status = models.StatusBlocked
			if reason != "" {
				f.BlockedBy = append(f.BlockedBy, reason)
			}
		},
		func(ctx context.Context) error {
			return m.api.BlockFeature(ctx, id, reason)
		})
}

// Verify optimistically marks a feature verified.
func (m *Mutator) Verify(ctx context.Context, id, evidence string) error {
	return m.mutateFeature(ctx, id, "Verified "+id,
		func(f *models.Feature) {
			f.Status = models.StatusVerified
			f.Passes = true
		},
		func(ctx context.Context) error {
			return m.api.VerifyFeature(ctx, id, evidence)
		})
}

// Reorder optimistically applies a new priority ranking to the whole list.
// It holds a single list-wide in-flight slot, keyed separately from the
// per-feature mutations.
func (m *Mutator) Reorder(ctx context.Context, order []models.ReorderItem) error {
	const key = "reorder"
	if err := m.acquire(key); err != nil {
		m.notifier.Error(err.Error())
		return err
	}
	defer m.release(key)

	prev := m.features.Get()

	rank := make(map[string]int, len(order))
	for _, item := range order {
		rank[item.ID] = item.Priority
	}
	m.features.Update(func(features []models.Feature) []models.Feature {
		next := make([]models.Feature, len(features))
		copy(next, features)
		for i := range next {
			if p, ok := rank[next[i].ID]; ok {
				next[i].Priority = p
			}
		}
		return next
	})

	if err := m.api.ReorderFeatures(ctx, order); err != nil {
		m.features.Set(prev)
		m.log.WithError(err).Warn("reorder rejected, restoring previous order")
		m.notifier.Error(userMessage(err))
		return err
	}

	m.notifier.Success("Reordered features")
	return nil
}

// mutateFeature is the core optimistic cycle for a single feature: capture
// the entity's current value, apply the speculative change, issue the
// request, and on failure restore only that entity (so concurrent bulk
// mutations of other features are unaffected).
func (m *Mutator) mutateFeature(ctx context.Context, id, successMsg string, apply func(*models.Feature), request func(context.Context) error) error {
	if err := m.acquire(id); err != nil {
		m.notifier.Error(err.Error())
		return err
	}
	defer m.release(id)

	prev, found := m.snapshot(id)
	if found {
		m.features.Update(func(features []models.Feature) []models.Feature {
			next := make([]models.Feature, len(features))
			copy(next, features)
			for i := range next {
				if next[i].ID == id {
					apply(&next[i])
					break
				}
			}
			return next
		})
	}

	if err := request(ctx); err != nil {
		if found {
			m.restore(prev)
		}
		m.log.WithError(err).WithField("feature", id).Warn("mutation rejected, rolled back")
		m.notifier.Error(userMessage(err))
		return err
	}

	m.notifier.Success(successMsg)
	return nil
}

// snapshot returns a deep-enough copy of one feature for later restore.
func (m *Mutator) snapshot(id string) (models.Feature, bool) {
	for _, f := range m.features.Get() {
		if f.ID == id {
			f.BlockedBy = append([]string(nil), f.BlockedBy...)
			f.EvidenceLinks = append([]string(nil), f.EvidenceLinks...)
			return f, true
		}
	}
	return models.Feature{}, false
}

// restore puts the captured pre-mutation value back in place.
func (m *Mutator) restore(prev models.Feature) {
	m.features.Update(func(features []models.Feature) []models.Feature {
		next := make([]models.Feature, len(features))
		copy(next, features)
		for i := range next {
			if next[i].ID == prev.ID {
				next[i] = prev
				break
			}
		}
		return next
	})
}

func (m *Mutator) acquire(key string) error {
	return m.inflight.acquire(key)
}

func (m *Mutator) release(key string) {
	m.inflight.release(key)
}

// userMessage maps an error to the text shown in the notice. Structured
// errors already carry a user-facing message; anything else gets a generic
// failure line.
func userMessage(err error) string {
	var de *dasherr.DashError
	if stderrors.As(err, &de) {
		return de.Message
	}
	return "request failed: " + err.Error()
}
