package cart

import (
	"strconv"

	"github.com/printworks/backend/internal/domain/shared"
)

// Event types emitted by the deferred cart operation flow.
const (
	EventTypeTokenAcquired      = "auth.token_acquired"
	EventTypeOperationStaged    = "cart.operation_staged"
	EventTypeOperationCommitted = "cart.operation_committed"
	EventTypeOperationAborted   = "cart.operation_aborted"
	EventTypeOperationFailed    = "cart.operation_failed"
)

// TokenAcquiredEvent is the in-process signal raised when the auth
// collaborator acquires a token for a session.
type TokenAcquiredEvent struct {
	shared.BaseDomainEvent
	SessionID string `json:"session_id"`
}

// NewTokenAcquiredEvent creates a token-acquired event
func NewTokenAcquiredEvent(sessionID string) *TokenAcquiredEvent {
	return &TokenAcquiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTokenAcquired, "session", sessionID),
		SessionID:       sessionID,
	}
}

// OperationStagedEvent records that a cart intent was staged pending auth.
type OperationStagedEvent struct {
	shared.BaseDomainEvent
	SessionID string `json:"session_id"`
	ProductID int64  `json:"product_id"`
}

// NewOperationStagedEvent creates an operation-staged event
func NewOperationStagedEvent(sessionID string, op PendingCartOperation) *OperationStagedEvent {
	return &OperationStagedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOperationStaged, "pending_operation", strconv.FormatInt(op.ProductID, 10)),
		SessionID:       sessionID,
		ProductID:       op.ProductID,
	}
}

// OperationCommittedEvent records a successful append (or a dedup hit,
// which is treated as already committed).
type OperationCommittedEvent struct {
	shared.BaseDomainEvent
	SessionID    string `json:"session_id"`
	Line         Line   `json:"line"`
	Deduplicated bool   `json:"deduplicated"`
}

// NewOperationCommittedEvent creates an operation-committed event
func NewOperationCommittedEvent(sessionID string, line Line, deduplicated bool) *OperationCommittedEvent {
	return &OperationCommittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOperationCommitted, "cart_line", strconv.FormatInt(line.ID, 10)),
		SessionID:       sessionID,
		Line:            line,
		Deduplicated:    deduplicated,
	}
}

// OperationAbortedEvent records a staged operation discarded for failing
// its completeness schema. No network call was made.
type OperationAbortedEvent struct {
	shared.BaseDomainEvent
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
}

// NewOperationAbortedEvent creates an operation-aborted event
func NewOperationAbortedEvent(sessionID, reason string) *OperationAbortedEvent {
	return &OperationAbortedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOperationAborted, "pending_operation", sessionID),
		SessionID:       sessionID,
		Reason:          reason,
	}
}

// OperationFailedEvent records an append call that errored after dedup
// passed. The operation is not re-staged.
type OperationFailedEvent struct {
	shared.BaseDomainEvent
	SessionID string `json:"session_id"`
	ProductID int64  `json:"product_id"`
	Reason    string `json:"reason"`
}

// NewOperationFailedEvent creates an operation-failed event
func NewOperationFailedEvent(sessionID string, productID int64, reason string) *OperationFailedEvent {
	return &OperationFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOperationFailed, "pending_operation", sessionID),
		SessionID:       sessionID,
		ProductID:       productID,
		Reason:          reason,
	}
}
