package cart

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/printworks/backend/internal/domain/pricing"
	"github.com/printworks/backend/internal/domain/shared"
)

// PendingCartOperation is an immutable snapshot of an add-to-cart intent
// taken while the buyer was unauthenticated. It is written once to the
// staging store and consumed at most once: the processor removes it the
// instant handling begins.
type PendingCartOperation struct {
	Kind          pricing.VariantKind          `json:"variant_kind"`
	ProductID     int64                        `json:"product_id"`
	Selection     pricing.Selection            `json:"selection"`
	ResolvedTuple map[pricing.Dimension]string `json:"resolved_rule_tuple"`
	DerivedMetric decimal.NullDecimal          `json:"derived_metric"`
	DocumentRefs  []int64                      `json:"document_refs,omitempty"`
	StagedAt      time.Time                    `json:"staged_at"`
}

// NewPendingCartOperation snapshots a priced selection for deferred commit.
func NewPendingCartOperation(quote pricing.Quote, productID int64, sel pricing.Selection, documentRefs []int64) PendingCartOperation {
	return PendingCartOperation{
		Kind:          quote.Kind,
		ProductID:     productID,
		Selection:     sel.Clone(),
		ResolvedTuple: quote.ResolvedTuple,
		DerivedMetric: quote.Metric,
		DocumentRefs:  documentRefs,
		StagedAt:      time.Now(),
	}
}

// Validate applies the variant kind's minimum-completeness schema. A staged
// record that fails here is corrupt: the processor aborts without any
// network call and without re-staging.
func (op PendingCartOperation) Validate() error {
	if !pricing.IsValidKind(op.Kind) {
		return shared.NewDomainError("STAGING_CORRUPT",
			fmt.Sprintf("Staged operation has unknown variant kind %q", op.Kind))
	}
	if op.ProductID <= 0 {
		return shared.NewDomainError("STAGING_CORRUPT", "Staged operation has no product ID")
	}
	if missing := op.Selection.MissingDimensions(op.Kind); missing != nil {
		return shared.NewDomainError("STAGING_CORRUPT",
			fmt.Sprintf("Staged %s operation is missing dimensions %v", op.Kind, missing))
	}

	spec, _ := pricing.SpecFor(op.Kind)
	for _, dim := range spec.RuleDims {
		if op.ResolvedTuple[dim] == "" {
			return shared.NewDomainError("STAGING_CORRUPT",
				fmt.Sprintf("Staged %s operation has no resolved value for %s", op.Kind, dim))
		}
	}
	if spec.Form != pricing.PriceFlat && !op.DerivedMetric.Valid {
		return shared.NewDomainError("STAGING_CORRUPT",
			fmt.Sprintf("Staged %s operation has no derived metric", op.Kind))
	}
	return nil
}

// Marshal serializes the operation for the staging store.
func (op PendingCartOperation) Marshal() ([]byte, error) {
	return json.Marshal(op)
}

// UnmarshalPendingCartOperation deserializes a staged record. A payload
// that is not even valid JSON is reported as corruption, same as a record
// failing its schema.
func UnmarshalPendingCartOperation(data []byte) (PendingCartOperation, error) {
	var op PendingCartOperation
	if err := json.Unmarshal(data, &op); err != nil {
		return PendingCartOperation{}, shared.NewDomainError("STAGING_CORRUPT",
			fmt.Sprintf("Staged operation is not valid JSON: %v", err))
	}
	return op, nil
}
