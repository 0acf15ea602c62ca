package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/printworks/backend/internal/domain/shared"
	"github.com/printworks/backend/internal/domain/shared/valueobject"
)

// RateUnit says what count a per-unit addon rate multiplies against.
type RateUnit string

const (
	RateFlat    RateUnit = "flat"
	RatePerPage RateUnit = "page"
	RatePerCopy RateUnit = "copy"
)

// AddonRule belongs to a named add-on (e.g. lamination) and is keyed by the
// same dimension tuple as the base paper-print rules. Rate is either a flat
// amount ("500") or a per-unit rate string ("7/page").
type AddonRule struct {
	Addon string
	Tuple map[Dimension]string
	Rate  string
}

// ParsedRate is a rate string decomposed for arithmetic.
type ParsedRate struct {
	Rate decimal.Decimal
	Unit RateUnit
}

// ParseRate parses "7/page", "12/copy" or a bare flat amount.
// Malformed rate strings are a data error, never silently ignored.
func ParseRate(raw string) (ParsedRate, error) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	if norm == "" {
		return ParsedRate{}, shared.NewDomainError("INVALID_RATE", "Addon rate is empty")
	}

	amountPart, unitPart, hasUnit := strings.Cut(norm, "/")
	amount, err := decimal.NewFromString(strings.TrimSpace(amountPart))
	if err != nil {
		return ParsedRate{}, shared.NewDomainError("INVALID_RATE",
			fmt.Sprintf("Addon rate %q has a non-numeric amount", raw))
	}
	if !hasUnit {
		return ParsedRate{Rate: amount, Unit: RateFlat}, nil
	}

	switch strings.TrimSpace(unitPart) {
	case "page", "pages":
		return ParsedRate{Rate: amount, Unit: RatePerPage}, nil
	case "copy", "copies":
		return ParsedRate{Rate: amount, Unit: RatePerCopy}, nil
	default:
		return ParsedRate{}, shared.NewDomainError("INVALID_RATE",
			fmt.Sprintf("Addon rate %q has an unknown unit %q", raw, unitPart))
	}
}

// AddonCharge is one addon's contribution to a quote.
type AddonCharge struct {
	Addon  string            `json:"addon"`
	Amount valueobject.Money `json:"amount"`
}

// ComposeAddons folds the selected add-ons into the base total. For each
// selected addon it takes every rule whose tuple exactly matches the base
// rule's resolved tuple (zero or many matches are legal by construction),
// multiplying per-unit rates by the relevant count.
func ComposeAddons(
	base Quote,
	catalog []AddonRule,
	selectedAddons []string,
	pageCount, copies decimal.Decimal,
) (valueobject.Money, []AddonCharge, error) {
	total := base.Total
	var charges []AddonCharge

	for _, name := range selectedAddons {
		addon := Normalize(name)
		sum := valueobject.Zero(base.Total.Currency())
		matched := false

		for _, rule := range catalog {
			if Normalize(rule.Addon) != addon {
				continue
			}
			if !addonTupleMatches(rule, base.ResolvedTuple) {
				continue
			}
			rate, err := ParseRate(rule.Rate)
			if err != nil {
				return valueobject.Money{}, nil, err
			}
			matched = true

			var amount decimal.Decimal
			switch rate.Unit {
			case RateFlat:
				amount = rate.Rate
			case RatePerPage:
				amount = rate.Rate.Mul(pageCount)
			case RatePerCopy:
				amount = rate.Rate.Mul(copies)
			}
			charge, err := valueobject.NewMoney(amount, sum.Currency())
			if err != nil {
				return valueobject.Money{}, nil, err
			}
			sum = sum.MustAdd(charge)
		}

		if matched {
			total = total.MustAdd(sum)
			charges = append(charges, AddonCharge{Addon: addon, Amount: sum})
		}
	}

	return total, charges, nil
}

// addonTupleMatches reports whether every dimension the addon rule declares
// equals the base rule's resolved value for that dimension.
func addonTupleMatches(rule AddonRule, resolved map[Dimension]string) bool {
	for dim, v := range rule.Tuple {
		if Normalize(v) != resolved[dim] {
			return false
		}
	}
	return len(rule.Tuple) > 0
}
