// Package store provides the observable state containers the dashboard is
// built on: a generic publish/subscribe value holder plus the domain stores
// layered on top of it (selection, presence roster, session timer).
//
// Stores are constructed explicitly and handed to consumers; there is no
// package-level shared state, so tests can build isolated instances.
package store

import "sync"

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Store holds a single value and notifies subscribers on every mutation.
// Listeners are invoked synchronously, in registration order, after the new
// value is visible to Get. Each listener runs inside its own recover
// boundary so a panicking subscriber cannot suppress the rest.
type Store[T any] struct {
	mu     sync.Mutex
	value  T
	nextID int
	subs   []subscriber[T]
}

// New creates a store seeded with an initial value.
func New[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// Get returns the current value. Callers must not mutate the returned value
// in place; all changes go through Set or Update.
func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the value and notifies all current subscribers.
func (s *Store[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	subs := make([]subscriber[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		notify(sub.fn, value)
	}
}

// Update computes the new value from the previous one and notifies all
// current subscribers. The producer runs under the store lock and must not
// call back into the store.
func (s *Store[T]) Update(producer func(T) T) T {
	s.mu.Lock()
	s.value = producer(s.value)
	value := s.value
	subs := make([]subscriber[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		notify(sub.fn, value)
	}
	return value
}

// Subscribe registers a listener and returns its deregistration function.
// The listener is not invoked with the current value at registration time.
func (s *Store[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// notify isolates a single listener invocation so one panicking subscriber
// cannot abort notification of the others.
func notify[T any](fn func(T), value T) {
	defer func() {
		_ = recover()
	}()
	fn(value)
}
