package checkout

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/printworks/backend/internal/domain/cart"
	"github.com/printworks/backend/internal/domain/shared"
)

// CommitStatus is the outcome of a commit attempt.
type CommitStatus string

const (
	// CommitStatusCommitted means the item was added to the cart.
	CommitStatusCommitted CommitStatus = "committed"
	// CommitStatusStaged means the buyer must authenticate first; the
	// operation was staged and will be replayed after sign-in.
	CommitStatusStaged CommitStatus = "staged"
)

// AuthRedirectPath is where a staged buyer is sent to sign in.
const AuthRedirectPath = "/login"

// CommitResult reports how a commit attempt ended.
type CommitResult struct {
	Status   CommitStatus `json:"status"`
	Quote    QuoteResult  `json:"quote"`
	Line     cart.Line    `json:"line,omitzero"`
	Redirect string       `json:"redirect,omitempty"`
}

// Stager handles the buyer's add-to-cart attempt. An authenticated buyer
// commits directly; an unauthenticated one gets the validated, priced
// intent staged and is redirected toward sign-in.
type Stager struct {
	quoter    *Quoter
	processor *Processor
	staging   cart.StagingStore
	tokens    cart.TokenStore
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewStager creates a new Stager
func NewStager(
	quoter *Quoter,
	processor *Processor,
	staging cart.StagingStore,
	tokens cart.TokenStore,
	events shared.EventPublisher,
	logger *zap.Logger,
) *Stager {
	return &Stager{
		quoter:    quoter,
		processor: processor,
		staging:   staging,
		tokens:    tokens,
		events:    events,
		logger:    logger,
	}
}

// Commit validates, prices, and either appends the item or stages it.
// Compatibility and pricing errors surface to the caller before anything
// is staged or sent to the cart service.
func (s *Stager) Commit(ctx context.Context, sessionID string, req QuoteRequest) (CommitResult, error) {
	quote, err := s.quoter.Quote(ctx, req)
	if err != nil {
		return CommitResult{}, err
	}

	sel := buildSelection(req.Selection)
	op := cart.NewPendingCartOperation(quote.Quote, req.ProductID, sel, req.DocumentRefs)

	authenticated, err := s.tokens.Present(ctx, sessionID)
	if err != nil {
		return CommitResult{}, fmt.Errorf("check auth token: %w", err)
	}

	if authenticated {
		result, err := s.processor.Commit(ctx, sessionID, op)
		if err != nil {
			return CommitResult{}, err
		}
		return CommitResult{Status: CommitStatusCommitted, Quote: quote, Line: result.Line}, nil
	}

	if err := s.staging.Put(ctx, sessionID, op); err != nil {
		return CommitResult{}, fmt.Errorf("stage operation: %w", err)
	}

	s.logger.Info("cart operation staged pending authentication",
		zap.String("session_id", sessionID),
		zap.Int64("product_id", req.ProductID),
	)
	if err := s.events.Publish(ctx, cart.NewOperationStagedEvent(sessionID, op)); err != nil {
		s.logger.Error("failed to publish staged event", zap.Error(err))
	}

	return CommitResult{Status: CommitStatusStaged, Quote: quote, Redirect: AuthRedirectPath}, nil
}
