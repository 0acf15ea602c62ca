package checkout

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/printworks/backend/internal/domain/cart"
	"github.com/printworks/backend/internal/domain/shared"
	"github.com/printworks/backend/internal/domain/shared/valueobject"
)

// CartView is the in-memory count/total a session sees immediately after a
// commit, before the next full cart fetch.
type CartView struct {
	Count int               `json:"count"`
	Total valueobject.Money `json:"total"`
}

// Reconciler merges committed operations into per-session in-memory cart
// state for immediate feedback. It subscribes to operation-committed
// events; deduplicated commits do not bump the count a second time.
type Reconciler struct {
	mu     sync.RWMutex
	views  map[string]CartView
	logger *zap.Logger
}

// NewReconciler creates a new Reconciler
func NewReconciler(logger *zap.Logger) *Reconciler {
	return &Reconciler{views: make(map[string]CartView), logger: logger}
}

// Handle implements shared.EventHandler for operation-committed events.
func (r *Reconciler) Handle(ctx context.Context, event shared.DomainEvent) error {
	committed, ok := event.(*cart.OperationCommittedEvent)
	if !ok || committed.Deduplicated {
		return nil
	}
	r.ApplyLine(committed.SessionID, committed.Line)
	return nil
}

// EventTypes implements shared.EventHandler
func (r *Reconciler) EventTypes() []string {
	return []string{cart.EventTypeOperationCommitted}
}

// ApplyLine folds one committed line into the session's view.
func (r *Reconciler) ApplyLine(sessionID string, line cart.Line) {
	r.mu.Lock()
	defer r.mu.Unlock()
	view := r.views[sessionID]
	view.Count++
	if view.Total.Currency() == "" {
		view.Total = valueobject.Zero(line.Total.Currency())
	}
	total, err := view.Total.Add(line.Total)
	if err != nil {
		r.logger.Warn("cart line excluded from view total",
			zap.String("session_id", sessionID),
			zap.Int64("line_id", line.ID),
			zap.Error(err),
		)
	} else {
		view.Total = total
	}
	r.views[sessionID] = view
}

// ApplySnapshot replaces the session's view with a fresh server snapshot.
func (r *Reconciler) ApplySnapshot(sessionID string, snapshot cart.Snapshot) {
	view := CartView{Total: valueobject.ZeroINR()}
	for _, line := range snapshot.Lines {
		view.Count++
		total, err := view.Total.Add(line.Total)
		if err != nil {
			r.logger.Warn("cart line excluded from view total",
				zap.String("session_id", sessionID),
				zap.Int64("line_id", line.ID),
				zap.Error(err),
			)
			continue
		}
		view.Total = total
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[sessionID] = view
}

// View returns the session's current in-memory cart view.
func (r *Reconciler) View(sessionID string) CartView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	view, ok := r.views[sessionID]
	if !ok {
		return CartView{Total: valueobject.ZeroINR()}
	}
	return view
}

// Ensure Reconciler implements EventHandler
var _ shared.EventHandler = (*Reconciler)(nil)
