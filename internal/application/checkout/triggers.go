package checkout

import (
	"context"

	"go.uber.org/zap"

	"github.com/printworks/backend/internal/domain/cart"
	"github.com/printworks/backend/internal/domain/shared"
)

// Triggers funnels the three independent "authentication just completed"
// signals into the single-consumer Processor:
//
//  1. a mount-time check on page load, finding both a persisted token and
//     a staged operation;
//  2. the in-process token-acquired notification from the auth flow;
//  3. the cross-context watch on the persistent token store.
//
// Each signal may fire redundantly or near-simultaneously; the processor's
// remove-before-act Take makes every entry after the first a no-op.
type Triggers struct {
	processor *Processor
	staging   cart.StagingStore
	tokens    cart.TokenStore
	logger    *zap.Logger
}

// NewTriggers creates a new Triggers
func NewTriggers(processor *Processor, staging cart.StagingStore, tokens cart.TokenStore, logger *zap.Logger) *Triggers {
	return &Triggers{
		processor: processor,
		staging:   staging,
		tokens:    tokens,
		logger:    logger,
	}
}

// CheckOnMount is signal (1): invoked on any page load. It processes the
// session only when a token and a staged operation both exist.
func (t *Triggers) CheckOnMount(ctx context.Context, sessionID string) (Result, error) {
	present, err := t.tokens.Present(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}
	if !present {
		return Result{Outcome: OutcomeNone}, nil
	}
	_, staged, err := t.staging.Peek(ctx, sessionID)
	if err != nil && !staged {
		return Result{}, err
	}
	if !staged {
		return Result{Outcome: OutcomeNone}, nil
	}
	// An undecodable record still occupies the slot; Process consumes and
	// discards it so the next mount does not hit the same corruption.
	return t.processor.Process(ctx, sessionID)
}

// Handle is signal (2): the event-bus subscription on token acquisition.
func (t *Triggers) Handle(ctx context.Context, event shared.DomainEvent) error {
	acquired, ok := event.(*cart.TokenAcquiredEvent)
	if !ok {
		return nil
	}
	result, err := t.processor.Process(ctx, acquired.SessionID)
	if err != nil {
		return err
	}
	t.logger.Debug("processed staged operation on token acquisition",
		zap.String("session_id", acquired.SessionID),
		zap.String("outcome", string(result.Outcome)),
	)
	return nil
}

// EventTypes implements shared.EventHandler
func (t *Triggers) EventTypes() []string {
	return []string{cart.EventTypeTokenAcquired}
}

// WatchTokenStore is signal (3): it consumes the token store's
// absent-to-present transitions until ctx is cancelled. Run it in its own
// goroutine.
func (t *Triggers) WatchTokenStore(ctx context.Context) error {
	events, err := t.tokens.Watch(ctx)
	if err != nil {
		return err
	}
	for event := range events {
		result, err := t.processor.Process(ctx, event.SessionID)
		if err != nil {
			t.logger.Error("token watch processing failed",
				zap.String("session_id", event.SessionID),
				zap.Error(err),
			)
			continue
		}
		if result.Outcome != OutcomeNone {
			t.logger.Info("token watch processed staged operation",
				zap.String("session_id", event.SessionID),
				zap.String("outcome", string(result.Outcome)),
			)
		}
	}
	return nil
}

// Ensure Triggers implements EventHandler
var _ shared.EventHandler = (*Triggers)(nil)
