package models

import (
	"context"
	"sync"
	"time"
)

// DefaultViewTTL is how long an idle view keeps its state.
const DefaultViewTTL = 24 * time.Hour

// ViewStateStore keeps a view's UIState between HTTP requests.
type ViewStateStore interface {
	Get(ctx context.Context, id string) (*UIState, error)
	Put(ctx context.Context, id string, state UIState) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type memoryEntry struct {
	state     UIState
	expiresAt time.Time
}

// MemoryViewStateStore holds view state in process memory.
// It is the default when no database is configured.
type MemoryViewStateStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryViewStateStore(ttl time.Duration) *MemoryViewStateStore {
	if ttl <= 0 {
		ttl = DefaultViewTTL
	}
	return &MemoryViewStateStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryViewStateStore) Get(ctx context.Context, id string) (*UIState, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrViewNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		return nil, ErrViewExpired
	}

	state := entry.state.Clone()
	return &state, nil
}

func (s *MemoryViewStateStore) Put(ctx context.Context, id string, state UIState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = memoryEntry{
		state:     state.Clone(),
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryViewStateStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return ErrViewNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *MemoryViewStateStore) DeleteExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var removed int64
	for id, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed, nil
}
