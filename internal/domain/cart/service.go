package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/printworks/backend/internal/domain/shared/valueobject"
)

// Line is one committed cart line item.
type Line struct {
	ID            int64               `json:"id"`
	ProductID     int64               `json:"product_id"`
	Attributes    map[string]string   `json:"attributes"`
	DerivedMetric decimal.NullDecimal `json:"derived_metric"`
	DocumentRefs  []int64             `json:"document_refs,omitempty"`
	Total         valueobject.Money   `json:"total"`
}

// Matches reports whether this line already represents the given product
// with the given resolved attribute values. Used for deduplication before
// a staged operation is committed.
func (l Line) Matches(productID int64, attributes map[string]string) bool {
	if l.ProductID != productID {
		return false
	}
	for name, value := range attributes {
		if l.Attributes[name] != value {
			return false
		}
	}
	return true
}

// Snapshot is a read-only view of the server cart's current line items.
// It is fetched fresh at every commit attempt and never cached.
type Snapshot struct {
	Lines []Line `json:"lines"`
}

// FindMatch returns the first line matching the product and attributes.
func (s Snapshot) FindMatch(productID int64, attributes map[string]string) (Line, bool) {
	for _, line := range s.Lines {
		if line.Matches(productID, attributes) {
			return line, true
		}
	}
	return Line{}, false
}

// AppendRequest is the payload for one cart append call. The cart service
// re-prices the line server-side; the request carries only the resolved
// attribute identities and the derived metric.
type AppendRequest struct {
	ProductID     int64
	Attributes    map[string]string
	DerivedMetric decimal.NullDecimal
	DocumentRefs  []int64
}

// Service is the external cart collaborator: read the current cart,
// append one configured item.
type Service interface {
	// Get fetches a fresh snapshot of the session's cart
	Get(ctx context.Context, sessionID string) (Snapshot, error)
	// AppendItem appends a configured item and returns the created line
	AppendItem(ctx context.Context, sessionID string, req AppendRequest) (Line, error)
}
