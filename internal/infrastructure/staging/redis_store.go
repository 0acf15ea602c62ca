package staging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/printworks/backend/internal/domain/cart"
)

// RedisStagingStore implements cart.StagingStore on Redis. Suitable for
// deployments where the staged operation must survive a redirect through
// an external sign-in page and be visible across instances. Take uses
// GETDEL, so concurrent consumers race safely: at most one gets the record.
type RedisStagingStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStagingStore creates a new Redis-based staging store
func NewRedisStagingStore(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisStagingStore {
	if keyPrefix == "" {
		keyPrefix = "cart:staged:"
	}
	return &RedisStagingStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Put stages an operation, replacing any previous one for the session
func (s *RedisStagingStore) Put(ctx context.Context, sessionID string, op cart.PendingCartOperation) error {
	payload, err := op.Marshal()
	if err != nil {
		return fmt.Errorf("serialize staged operation: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("stage operation: %w", err)
	}
	return nil
}

// Peek returns the staged operation without consuming it
func (s *RedisStagingStore) Peek(ctx context.Context, sessionID string) (cart.PendingCartOperation, bool, error) {
	payload, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.PendingCartOperation{}, false, nil
	}
	if err != nil {
		return cart.PendingCartOperation{}, false, fmt.Errorf("read staged operation: %w", err)
	}
	op, err := cart.UnmarshalPendingCartOperation(payload)
	if err != nil {
		return cart.PendingCartOperation{}, true, err
	}
	return op, true, nil
}

// Take atomically removes and returns the staged operation via GETDEL
func (s *RedisStagingStore) Take(ctx context.Context, sessionID string) (cart.PendingCartOperation, bool, error) {
	payload, err := s.client.GetDel(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.PendingCartOperation{}, false, nil
	}
	if err != nil {
		return cart.PendingCartOperation{}, false, fmt.Errorf("take staged operation: %w", err)
	}
	op, err := cart.UnmarshalPendingCartOperation(payload)
	if err != nil {
		// The slot is already consumed; surface the corruption
		return cart.PendingCartOperation{}, true, err
	}
	return op, true, nil
}

// Clear empties the session's slot
func (s *RedisStagingStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear staged operation: %w", err)
	}
	return nil
}

func (s *RedisStagingStore) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

// Ensure RedisStagingStore implements StagingStore
var _ cart.StagingStore = (*RedisStagingStore)(nil)
