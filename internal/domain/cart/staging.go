package cart

import "context"

// StagingStore holds at most one serialized PendingCartOperation per
// session. It is the single shared slot behind the deferred-commit flow,
// so the contract is explicit: Take is the only consuming read, and it is
// atomic remove-and-return. Two concurrent consumers of the same session
// see exactly one operation between them.
type StagingStore interface {
	// Put stages an operation, replacing any previous one for the session
	Put(ctx context.Context, sessionID string, op PendingCartOperation) error
	// Peek returns the staged operation without consuming it.
	// ok is false when the slot is empty.
	Peek(ctx context.Context, sessionID string) (op PendingCartOperation, ok bool, err error)
	// Take atomically removes and returns the staged operation.
	// ok is false when the slot was already empty.
	Take(ctx context.Context, sessionID string) (op PendingCartOperation, ok bool, err error)
	// Clear empties the slot
	Clear(ctx context.Context, sessionID string) error
}
