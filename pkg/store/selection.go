package store

import "sort"

// Selection tracks which feature IDs are multi-selected in list views.
// Membership is keyed by ID only; entries for items that have scrolled out
// of view are inert. Views must call Clear whenever their filter criteria
// change so stale selections never apply bulk actions to hidden items.
type Selection struct {
	store *Store[map[string]struct{}]
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{store: New(map[string]struct{}{})}
}

// Toggle flips membership of a single ID.
func (s *Selection) Toggle(id string) {
	s.store.Update(func(prev map[string]struct{}) map[string]struct{} {
		next := make(map[string]struct{}, len(prev)+1)
		for k := range prev {
			next[k] = struct{}{}
		}
		if _, ok := next[id]; ok {
			delete(next, id)
		} else {
			next[id] = struct{}{}
		}
		return next
	})
}

// SelectAll replaces the selection wholesale with the given IDs.
func (s *Selection) SelectAll(ids []string) {
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	s.store.Set(next)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.store.Set(map[string]struct{}{})
}

// Has reports whether an ID is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.store.Get()[id]
	return ok
}

// Len returns the number of selected IDs.
func (s *Selection) Len() int {
	return len(s.store.Get())
}

// IDs returns the selected IDs in sorted order.
func (s *Selection) IDs() []string {
	cur := s.store.Get()
	ids := make([]string, 0, len(cur))
	for id := range cur {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Subscribe registers a listener for selection changes.
func (s *Selection) Subscribe(fn func(map[string]struct{})) func() {
	return s.store.Subscribe(fn)
}
