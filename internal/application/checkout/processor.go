package checkout

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/printworks/backend/internal/domain/cart"
	"github.com/printworks/backend/internal/domain/shared"
)

// Outcome is the terminal state of one processing attempt.
type Outcome string

const (
	// OutcomeNone means no staged operation existed for the session.
	OutcomeNone Outcome = "none"
	// OutcomeCommitted means the item is in the cart (freshly appended or
	// found already present by the dedup check).
	OutcomeCommitted Outcome = "committed"
	// OutcomeAborted means the staged record failed its completeness
	// schema and was discarded without any network call.
	OutcomeAborted Outcome = "aborted"
	// OutcomeFailed means the cart service call errored; the operation is
	// not retried.
	OutcomeFailed Outcome = "failed"
)

// Result reports what one Process invocation did.
type Result struct {
	Outcome      Outcome   `json:"outcome"`
	Line         cart.Line `json:"line,omitzero"`
	Deduplicated bool      `json:"deduplicated,omitempty"`
	Reason       string    `json:"reason,omitempty"`
}

// Processor replays a staged cart operation once the buyer is
// authenticated. It is the single consumer of the staging slot and is safe
// to enter redundantly: the staged record is removed as the first step,
// before any asynchronous call, so a second concurrent entry observes an
// empty slot and does nothing.
//
// On a failed append the operation is deliberately not re-staged: the
// remove-before-act ordering buys at-most-once initiation, and re-staging
// after a failure would reopen the duplicate window the dedup check closes.
type Processor struct {
	staging cart.StagingStore
	carts   cart.Service
	events  shared.EventPublisher
	logger  *zap.Logger
}

// NewProcessor creates a new Processor
func NewProcessor(staging cart.StagingStore, carts cart.Service, events shared.EventPublisher, logger *zap.Logger) *Processor {
	return &Processor{
		staging: staging,
		carts:   carts,
		events:  events,
		logger:  logger,
	}
}

// Process consumes the session's staged operation, if any, and commits it.
func (p *Processor) Process(ctx context.Context, sessionID string) (Result, error) {
	op, ok, err := p.staging.Take(ctx, sessionID)
	if err != nil {
		// A payload that cannot even be deserialized is corruption, same
		// as a record failing its schema: discard, never retry.
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "STAGING_CORRUPT" {
			p.logger.Warn("staged operation discarded",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
			p.publish(ctx, cart.NewOperationAbortedEvent(sessionID, err.Error()))
			return Result{Outcome: OutcomeAborted, Reason: err.Error()}, nil
		}
		return Result{}, fmt.Errorf("take staged operation: %w", err)
	}
	if !ok {
		return Result{Outcome: OutcomeNone}, nil
	}

	if err := op.Validate(); err != nil {
		p.logger.Warn("staged operation discarded",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		p.publish(ctx, cart.NewOperationAbortedEvent(sessionID, err.Error()))
		return Result{Outcome: OutcomeAborted, Reason: err.Error()}, nil
	}

	return p.Commit(ctx, sessionID, op)
}

// Commit deduplicates against a fresh cart snapshot and appends the item.
// It is also used for the direct (already authenticated) commit path.
func (p *Processor) Commit(ctx context.Context, sessionID string, op cart.PendingCartOperation) (Result, error) {
	snapshot, err := p.carts.Get(ctx, sessionID)
	if err != nil {
		p.publish(ctx, cart.NewOperationFailedEvent(sessionID, op.ProductID, err.Error()))
		return Result{Outcome: OutcomeFailed, Reason: err.Error()},
			fmt.Errorf("fetch cart snapshot: %w", err)
	}

	attributes := tupleAttributes(op)
	if line, found := snapshot.FindMatch(op.ProductID, attributes); found {
		p.logger.Info("staged operation already in cart",
			zap.String("session_id", sessionID),
			zap.Int64("product_id", op.ProductID),
			zap.Int64("line_id", line.ID),
		)
		p.publish(ctx, cart.NewOperationCommittedEvent(sessionID, line, true))
		return Result{Outcome: OutcomeCommitted, Line: line, Deduplicated: true}, nil
	}

	line, err := p.carts.AppendItem(ctx, sessionID, cart.AppendRequest{
		ProductID:     op.ProductID,
		Attributes:    attributes,
		DerivedMetric: op.DerivedMetric,
		DocumentRefs:  op.DocumentRefs,
	})
	if err != nil {
		p.logger.Error("cart append failed",
			zap.String("session_id", sessionID),
			zap.Int64("product_id", op.ProductID),
			zap.Error(err),
		)
		p.publish(ctx, cart.NewOperationFailedEvent(sessionID, op.ProductID, err.Error()))
		return Result{Outcome: OutcomeFailed, Reason: err.Error()},
			shared.ErrCartAppendFailed
	}

	p.logger.Info("cart operation committed",
		zap.String("session_id", sessionID),
		zap.Int64("product_id", op.ProductID),
		zap.Int64("line_id", line.ID),
	)
	p.publish(ctx, cart.NewOperationCommittedEvent(sessionID, line, false))
	return Result{Outcome: OutcomeCommitted, Line: line}, nil
}

// tupleAttributes flattens the resolved rule tuple for the cart service.
func tupleAttributes(op cart.PendingCartOperation) map[string]string {
	attributes := make(map[string]string, len(op.ResolvedTuple))
	for dim, v := range op.ResolvedTuple {
		attributes[string(dim)] = v
	}
	return attributes
}

func (p *Processor) publish(ctx context.Context, event shared.DomainEvent) {
	if err := p.events.Publish(ctx, event); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
}
