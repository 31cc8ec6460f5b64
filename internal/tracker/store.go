package tracker

import (
	"sort"

	"github.com/samber/lo"
)

// Store is the persistence abstraction for tracked sessions.
// The Repository uses Store for all reads and writes and provides locking;
// implementations need not be safe for concurrent use.
type Store interface {
	GetSession(key Key) (*TrackedSession, bool)
	SetSession(t *TrackedSession)
	DeleteSession(key Key) bool
	ListKeys() []Key
}

// InMemoryStore is an in-memory implementation of Store.
type InMemoryStore struct {
	sessions map[Key]*TrackedSession
}

// NewInMemoryStore returns a new empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[Key]*TrackedSession),
	}
}

// GetSession implements Store.GetSession.
func (s *InMemoryStore) GetSession(key Key) (*TrackedSession, bool) {
	t, ok := s.sessions[key]
	return t, ok
}

// SetSession implements Store.SetSession.
func (s *InMemoryStore) SetSession(t *TrackedSession) {
	s.sessions[t.Key] = t
}

// DeleteSession implements Store.DeleteSession.
func (s *InMemoryStore) DeleteSession(key Key) bool {
	if _, ok := s.sessions[key]; !ok {
		return false
	}
	delete(s.sessions, key)
	return true
}

// ListKeys implements Store.ListKeys. Keys are sorted.
func (s *InMemoryStore) ListKeys() []Key {
	keys := lo.Keys(s.sessions)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
