package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/printworks/backend/internal/domain/shared"
	"github.com/printworks/backend/internal/domain/shared/valueobject"
)

// Quote is the result of resolving a complete selection against a rule set.
type Quote struct {
	Kind          VariantKind          `json:"kind"`
	RuleID        string               `json:"rule_id"`
	ResolvedTuple map[Dimension]string `json:"resolved_tuple"`
	UnitPrice     valueobject.Money    `json:"unit_price"`
	Metric        decimal.NullDecimal  `json:"metric"`
	Total         valueobject.Money    `json:"total"`
}

// Resolve finds the unique rule matching a complete selection and computes
// the total price. A selection outside every rule is a normal NO_MATCHING_RULE
// outcome, not an exception; an incomplete selection is a caller error.
func Resolve(rs *RuleSet, sel Selection) (Quote, error) {
	spec := rs.spec

	if missing := sel.MissingDimensions(rs.kind); missing != nil {
		return Quote{}, shared.NewDomainError("INCOMPLETE_SELECTION",
			fmt.Sprintf("Selection for %s is missing dimensions %v", rs.kind, missing))
	}

	metric, err := DeriveMetric(rs.kind, sel)
	if err != nil {
		return Quote{}, err
	}

	rule, ok := matchRule(rs, sel, metric)
	if !ok {
		return Quote{}, shared.ErrNoMatchingRule
	}

	total, err := computeTotal(spec.Form, rule.Price, metric)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Kind:          rs.kind,
		RuleID:        rule.ID,
		ResolvedTuple: rule.Tuple,
		UnitPrice:     rule.Price,
		Metric:        metric,
		Total:         total,
	}, nil
}

// PriceForTuple re-prices an already-resolved tuple, e.g. when the cart
// service recomputes a line total from the attribute identities it was
// handed. The tuple must equal one rule's tuple exactly.
func PriceForTuple(rs *RuleSet, tuple map[Dimension]string, metric decimal.NullDecimal) (valueobject.Money, error) {
	key := tupleKey(tuple, rs.spec.RuleDims)
	for _, rule := range rs.rules {
		if tupleKey(rule.Tuple, rs.spec.RuleDims) == key {
			return computeTotal(rs.spec.Form, rule.Price, metric)
		}
	}
	return valueobject.Money{}, shared.ErrNoMatchingRule
}

// DeriveMetric computes the numeric metric of a selection: square feet for
// canvas, page count for paper prints, quantity for per-unit variants.
// Flat-priced variants without a numeric axis yield an invalid NullDecimal.
func DeriveMetric(kind VariantKind, sel Selection) (decimal.NullDecimal, error) {
	switch kind {
	case VariantBusinessCard, VariantLetterhead:
		return decimal.NullDecimal{}, nil
	case VariantCanvasPrint:
		width, err := sel.Number(DimWidth)
		if err != nil {
			return decimal.NullDecimal{}, err
		}
		height, err := sel.Number(DimHeight)
		if err != nil {
			return decimal.NullDecimal{}, err
		}
		return decimal.NewNullDecimal(width.Mul(height)), nil
	case VariantOffsetPrint, VariantPhotoFrame, VariantPolaroidCard, VariantNameSlip:
		qty, err := sel.Number(DimQuantity)
		if err != nil {
			return decimal.NullDecimal{}, err
		}
		return decimal.NewNullDecimal(qty), nil
	case VariantPaperPrint:
		pages, err := sel.Number(DimPageCount)
		if err != nil {
			return decimal.NullDecimal{}, err
		}
		return decimal.NewNullDecimal(pages), nil
	default:
		return decimal.NullDecimal{}, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Unknown variant kind %q", kind))
	}
}

// matchRule scans the rule list for the unique rule whose discrete values
// equal the selection's and whose band, if any, contains the metric.
// Uniqueness is guaranteed by NewRuleSet, so the first hit is the only hit.
func matchRule(rs *RuleSet, sel Selection, metric decimal.NullDecimal) (PricingRule, bool) {
	spec := rs.spec
	for _, rule := range rs.rules {
		if !discreteDimsMatch(spec, rule, sel) {
			continue
		}
		if spec.BandDim != "" {
			if !metric.Valid {
				continue
			}
			band, err := ParseBand(rule.Tuple[spec.BandDim])
			if err != nil {
				// Unparseable bands are rejected at load.
				continue
			}
			if !band.Contains(metric.Decimal) {
				continue
			}
		}
		return rule, true
	}
	return PricingRule{}, false
}

func discreteDimsMatch(spec VariantSpec, rule PricingRule, sel Selection) bool {
	for _, dim := range discreteDims(spec) {
		value, ok := sel.Get(dim)
		if !ok || rule.Tuple[dim] != value {
			return false
		}
	}
	return true
}

func computeTotal(form PriceForm, unit valueobject.Money, metric decimal.NullDecimal) (valueobject.Money, error) {
	switch form {
	case PriceFlat:
		return unit, nil
	case PricePerUnit, PricePerSquareFoot, PricePerPage:
		if !metric.Valid {
			return valueobject.Money{}, shared.NewDomainError("INCOMPLETE_SELECTION",
				"Metric-priced variant has no derived metric")
		}
		return unit.Multiply(metric.Decimal), nil
	default:
		return valueobject.Money{}, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Unknown price form %d", form))
	}
}
