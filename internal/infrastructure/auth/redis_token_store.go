package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/printworks/backend/internal/domain/cart"
)

// RedisTokenStore implements cart.TokenStore on Redis so token presence is
// observable across instances and tabs. Watch polls for keys that appear
// between sweeps; the in-process notification and the mount-time check
// cover the window a poll might miss.
type RedisTokenStore struct {
	client       *redis.Client
	keyPrefix    string
	ttl          time.Duration
	pollInterval time.Duration
	secret       string
	logger       *zap.Logger
}

// NewRedisTokenStore creates a new Redis-based token store
func NewRedisTokenStore(client *redis.Client, keyPrefix, secret string, ttl, pollInterval time.Duration, logger *zap.Logger) *RedisTokenStore {
	if keyPrefix == "" {
		keyPrefix = "auth:token:"
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &RedisTokenStore{
		client:       client,
		keyPrefix:    keyPrefix,
		ttl:          ttl,
		pollInterval: pollInterval,
		secret:       secret,
		logger:       logger,
	}
}

// Save stores the token for the session
func (s *RedisTokenStore) Save(ctx context.Context, sessionID, token string) error {
	if s.secret != "" {
		if err := ValidateToken(token, s.secret); err != nil {
			return err
		}
	}
	if err := s.client.Set(ctx, s.key(sessionID), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("save auth token: %w", err)
	}
	return nil
}

// Present reports whether a token exists for the session
func (s *RedisTokenStore) Present(ctx context.Context, sessionID string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("check auth token: %w", err)
	}
	return exists > 0, nil
}

// Delete removes the session's token
func (s *RedisTokenStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete auth token: %w", err)
	}
	return nil
}

// Watch polls the key space and emits an event for every session whose
// token appeared since the previous sweep.
func (s *RedisTokenStore) Watch(ctx context.Context) (<-chan cart.TokenEvent, error) {
	ch := make(chan cart.TokenEvent, 16)

	go func() {
		defer close(ch)
		known := make(map[string]struct{})
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				current, err := s.scanSessions(ctx)
				if err != nil {
					s.logger.Warn("token watch sweep failed", zap.Error(err))
					continue
				}
				for sessionID := range current {
					if _, seen := known[sessionID]; !seen {
						select {
						case ch <- cart.TokenEvent{SessionID: sessionID}:
						case <-ctx.Done():
							return
						}
					}
				}
				known = current
			}
		}
	}()

	return ch, nil
}

func (s *RedisTokenStore) scanSessions(ctx context.Context) (map[string]struct{}, error) {
	sessions := make(map[string]struct{})
	iter := s.client.Scan(ctx, 0, s.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		sessions[iter.Val()[len(s.keyPrefix):]] = struct{}{}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *RedisTokenStore) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

// Ensure RedisTokenStore implements TokenStore
var _ cart.TokenStore = (*RedisTokenStore)(nil)
