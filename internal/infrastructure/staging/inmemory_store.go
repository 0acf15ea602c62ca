package staging

import (
	"context"
	"sync"

	"github.com/printworks/backend/internal/domain/cart"
)

// InMemoryStagingStore implements cart.StagingStore with a mutex-guarded
// map. Suitable for single-instance deployments and tests. Take holds the
// lock across lookup and delete, so concurrent consumers of one session
// see exactly one operation between them.
type InMemoryStagingStore struct {
	mu    sync.Mutex
	slots map[string]cart.PendingCartOperation
}

// NewInMemoryStagingStore creates a new in-memory staging store
func NewInMemoryStagingStore() *InMemoryStagingStore {
	return &InMemoryStagingStore{
		slots: make(map[string]cart.PendingCartOperation),
	}
}

// Put stages an operation, replacing any previous one for the session
func (s *InMemoryStagingStore) Put(ctx context.Context, sessionID string, op cart.PendingCartOperation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[sessionID] = op
	return nil
}

// Peek returns the staged operation without consuming it
func (s *InMemoryStagingStore) Peek(ctx context.Context, sessionID string) (cart.PendingCartOperation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.slots[sessionID]
	return op, ok, nil
}

// Take atomically removes and returns the staged operation
func (s *InMemoryStagingStore) Take(ctx context.Context, sessionID string) (cart.PendingCartOperation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.slots[sessionID]
	if ok {
		delete(s.slots, sessionID)
	}
	return op, ok, nil
}

// Clear empties the session's slot
func (s *InMemoryStagingStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, sessionID)
	return nil
}

// Size returns the number of staged operations (for testing/monitoring)
func (s *InMemoryStagingStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

// Ensure InMemoryStagingStore implements StagingStore
var _ cart.StagingStore = (*InMemoryStagingStore)(nil)
