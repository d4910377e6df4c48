package session

import (
	"context"
	"sync"
)

// Keys persisted by the client.
const (
	KeyUserID   = "userid"
	KeyToken    = "token"
	KeyEmail    = "email"
	KeyFullName = "Fullname"
)

// Store is a persistent string key/value store holding the login session.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	return nil
}
