package session

import (
	"errors"
	"sync"

	"github.com/maelik/dungeonmaster/internal/model/game"
)

var ErrNotFound = errors.New("session not found")

// Store exposes session lookup for the gateway. Implementations must be safe
// for concurrent use; sessions are never mutated after Put.
type Store interface {
	Put(session game.Session) error
	Get(id string) (game.Session, error)
	Delete(id string) error
}

// MemoryStore implements Store with a process-lifetime map.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]game.Session
}

// NewMemoryStore bootstraps an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]game.Session)}
}

// Put stores a session record.
func (s *MemoryStore) Put(session game.Session) error {
	if session.ID == "" {
		return errors.New("session id is required")
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return nil
}

// Get retrieves a session by identifier.
func (s *MemoryStore) Get(id string) (game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return game.Session{}, ErrNotFound
	}
	return session, nil
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
