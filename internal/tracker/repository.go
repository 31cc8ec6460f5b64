package tracker

import (
	"errors"
	"sync"
)

// Repository defines the concurrency-safe contract for tracked sessions.
type Repository interface {
	// Add stores t. An existing session with the same key is replaced.
	Add(t *TrackedSession)

	// With runs fn on the session stored under key while holding that
	// session's lock, so calls on one session never interleave. Calls on
	// different sessions run in parallel. fn's error is returned unchanged.
	With(key Key, fn func(t *TrackedSession) error) error

	// Remove forgets the session stored under key.
	Remove(key Key) error

	// Count returns the number of tracked sessions. Used for metrics.
	Count() int
}

// ErrSessionNotFound is returned when no session is stored under a key.
var ErrSessionNotFound = errors.New("session not found")

// InMemoryRepository is a concurrency-safe implementation of Repository.
// It uses a Store for persistence; by default that is an InMemoryStore.
type InMemoryRepository struct {
	mu    sync.RWMutex
	store Store
}

// NewInMemoryRepository constructs a new repository with a default in-memory store.
func NewInMemoryRepository() *InMemoryRepository {
	return NewInMemoryRepositoryWithStore(NewInMemoryStore())
}

// NewInMemoryRepositoryWithStore constructs a repository that uses the given Store.
func NewInMemoryRepositoryWithStore(store Store) *InMemoryRepository {
	return &InMemoryRepository{store: store}
}

// Add implements Repository.Add.
func (r *InMemoryRepository) Add(t *TrackedSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store.SetSession(t)
}

// With implements Repository.With.
func (r *InMemoryRepository) With(key Key, fn func(t *TrackedSession) error) error {
	r.mu.RLock()
	t, ok := r.store.GetSession(key)
	r.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t)
}

// Remove implements Repository.Remove.
func (r *InMemoryRepository) Remove(key Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.store.DeleteSession(key) {
		return ErrSessionNotFound
	}
	return nil
}

// Count implements Repository.Count.
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.store.ListKeys())
}
