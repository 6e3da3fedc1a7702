package draft

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu     sync.RWMutex
	drafts map[string]Draft
}

// NewMemoryStore returns a process-local store, used when no Redis is configured.
func NewMemoryStore() Store {
	return &memoryStore{drafts: make(map[string]Draft)}
}

func (s *memoryStore) Get(ctx context.Context, sessionID string) (*Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (s *memoryStore) Save(ctx context.Context, sessionID string, d *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[sessionID] = *d
	return nil
}

// Touch only reports whether the draft exists; memory drafts live as long as their session.
func (s *memoryStore) Touch(ctx context.Context, sessionID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.drafts[sessionID]; !ok {
		return ErrNotFound
	}
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
	return nil
}
