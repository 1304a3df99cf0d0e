package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/watercycle-memory/internal/domain/game"
)

type sessionEntry struct {
	session    *game.Session
	lastActive time.Time
}

// MemorySessionStore is a SessionStore backed by a map.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry
	capacity int
	now      func() time.Time
}

// Ensure MemorySessionStore implements SessionStore.
var _ SessionStore = (*MemorySessionStore)(nil)

// NewMemorySessionStore creates a store holding at most capacity sessions.
// A capacity of zero or less means unbounded.
func NewMemorySessionStore(capacity int) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[uuid.UUID]*sessionEntry),
		capacity: capacity,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the store's time source. It is meant for tests.
func (s *MemorySessionStore) WithClock(now func() time.Time) *MemorySessionStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// Save implements SessionStore.
func (s *MemorySessionStore) Save(ctx context.Context, id uuid.UUID, session *game.Session) error {
	if session == nil || id == uuid.Nil {
		return NewStoreError("session", "save", "session and ID are required", ErrInvalidEntity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; exists {
		return ErrSessionExists
	}
	if s.capacity > 0 && len(s.sessions) >= s.capacity {
		return NewStoreError("session", "save", "capacity reached", ErrStoreFull)
	}

	s.sessions[id] = &sessionEntry{session: session, lastActive: s.now()}
	return nil
}

// Get implements SessionStore.
func (s *MemorySessionStore) Get(ctx context.Context, id uuid.UUID) (*game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry.session, nil
}

// Touch implements SessionStore.
func (s *MemorySessionStore) Touch(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	entry.lastActive = s.now()
	return nil
}

// Delete implements SessionStore.
func (s *MemorySessionStore) Delete(ctx context.Context, id uuid.UUID) (*game.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	delete(s.sessions, id)
	return entry.session, nil
}

// IdleSince implements SessionStore. IDs are returned oldest first.
func (s *MemorySessionStore) IdleSince(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type idle struct {
		id   uuid.UUID
		last time.Time
	}
	var found []idle
	for id, entry := range s.sessions {
		if entry.lastActive.Before(before) {
			found = append(found, idle{id: id, last: entry.lastActive})
		}
	}
	sort.Slice(found, func(i, j int) bool {
		return found[i].last.Before(found[j].last)
	})

	ids := make([]uuid.UUID, len(found))
	for i, f := range found {
		ids[i] = f.id
	}
	return ids, nil
}

// List implements SessionStore.
func (s *MemorySessionStore) List(ctx context.Context) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

// Count implements SessionStore.
func (s *MemorySessionStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
