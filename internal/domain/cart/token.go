package cart

import "context"

// TokenEvent signals that a session's auth token transitioned from absent
// to present in the persistent token store.
type TokenEvent struct {
	SessionID string
}

// TokenStore is the persistent, cross-context observable auth-token store.
// Token issuance itself is an external collaborator; this store only
// records presence and exposes the absent-to-present transition.
type TokenStore interface {
	// Save stores the token for the session
	Save(ctx context.Context, sessionID, token string) error
	// Present reports whether a token exists for the session
	Present(ctx context.Context, sessionID string) (bool, error)
	// Delete removes the session's token
	Delete(ctx context.Context, sessionID string) error
	// Watch emits an event each time a session's token appears.
	// The channel closes when ctx is cancelled.
	Watch(ctx context.Context) (<-chan TokenEvent, error)
}
