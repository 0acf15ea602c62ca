package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/printworks/backend/internal/domain/cart"
	"github.com/printworks/backend/internal/domain/shared"
)

// ValidateToken checks that a token string is a well-formed, signed JWT
// before the store records its presence. Issuance is external; the store
// only refuses to persist garbage.
func ValidateToken(tokenString, secret string) error {
	if tokenString == "" {
		return shared.NewDomainError("UNAUTHORIZED", "Empty auth token")
	}
	_, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return shared.NewDomainError("UNAUTHORIZED", fmt.Sprintf("Invalid auth token: %v", err))
	}
	return nil
}

// InMemoryTokenStore implements cart.TokenStore with a mutex-guarded map
// and channel fan-out for watchers. Suitable for single-instance
// deployments and tests.
type InMemoryTokenStore struct {
	mu       sync.Mutex
	tokens   map[string]string
	watchers map[chan cart.TokenEvent]struct{}
	secret   string
}

// NewInMemoryTokenStore creates a new in-memory token store.
// An empty secret disables JWT validation on Save.
func NewInMemoryTokenStore(secret string) *InMemoryTokenStore {
	return &InMemoryTokenStore{
		tokens:   make(map[string]string),
		watchers: make(map[chan cart.TokenEvent]struct{}),
		secret:   secret,
	}
}

// Save stores the token and notifies watchers on absent-to-present
func (s *InMemoryTokenStore) Save(ctx context.Context, sessionID, token string) error {
	if s.secret != "" {
		if err := ValidateToken(token, s.secret); err != nil {
			return err
		}
	}

	// Fan-out stays under the mutex so a send can never race the close in
	// the Watch cleanup goroutine. Sends are non-blocking.
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.tokens[sessionID]
	s.tokens[sessionID] = token
	if existed {
		return nil
	}
	for ch := range s.watchers {
		select {
		case ch <- cart.TokenEvent{SessionID: sessionID}:
		default:
			// Watcher is not keeping up; the mount-time check covers it.
		}
	}
	return nil
}

// Present reports whether a token exists for the session
func (s *InMemoryTokenStore) Present(ctx context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[sessionID]
	return ok, nil
}

// Delete removes the session's token
func (s *InMemoryTokenStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, sessionID)
	return nil
}

// Watch emits an event each time a session's token appears
func (s *InMemoryTokenStore) Watch(ctx context.Context) (<-chan cart.TokenEvent, error) {
	ch := make(chan cart.TokenEvent, 16)
	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, ch)
		close(ch)
		s.mu.Unlock()
	}()

	return ch, nil
}

// Ensure InMemoryTokenStore implements TokenStore
var _ cart.TokenStore = (*InMemoryTokenStore)(nil)
