package session

import (
	"context"
	"sync"
	"time"
)

// Store defines the interface for persisting editing sessions
type Store interface {
	// Put stores or replaces a session
	Put(ctx context.Context, sess *Session) error

	// Get retrieves a session by ID
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session
	Delete(ctx context.Context, id string) error

	// Cleanup removes sessions idle for longer than maxAge
	Cleanup(ctx context.Context, maxAge time.Duration) error

	// List returns all sessions (for monitoring)
	List(ctx context.Context) ([]*Session, error)

	// Close releases store resources
	Close() error
}

// MemoryStore implements Store using in-memory storage. Sessions are cloned
// on the way in and out so callers never share document pointers with the
// store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

// Put stores or replaces a session
func (s *MemoryStore) Put(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess.Clone()
	return nil
}

// Get retrieves a session by ID
func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[id]
	if !exists {
		return nil, ErrNotFound
	}

	return sess.Clone(), nil
}

// Delete removes a session
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; !exists {
		return ErrNotFound
	}

	delete(s.sessions, id)
	return nil
}

// Cleanup removes sessions idle for longer than maxAge
func (s *MemoryStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)

	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}

	return nil
}

// List returns all sessions (for monitoring)
func (s *MemoryStore) List(ctx context.Context) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		results = append(results, sess.Clone())
	}

	return results, nil
}

// Close releases store resources (no-op for the memory store)
func (s *MemoryStore) Close() error {
	return nil
}
