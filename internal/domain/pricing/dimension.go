package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/printworks/backend/internal/domain/shared"
)

// Dimension is a named axis of product configuration.
type Dimension string

const (
	DimCardType   Dimension = "card_type"
	DimFinish     Dimension = "finish"
	DimNoticeType Dimension = "notice_type"
	DimQuality    Dimension = "quality"
	DimQuantity   Dimension = "quantity"
	DimWidth      Dimension = "width"
	DimHeight     Dimension = "height"
	DimSquareFeet Dimension = "square_feet"
	DimPaperSize  Dimension = "paper_size"
	DimColorType  Dimension = "color_type"
	DimPageCount  Dimension = "page_count"
	DimPageRange  Dimension = "page_range"
	DimFrameSize  Dimension = "frame_size"
	DimCardSize   Dimension = "card_size"
	DimSlipType   Dimension = "slip_type"
)

// Normalize canonicalizes a raw selection value so comparisons are
// exact-match safe: surrounding whitespace is trimmed, inner runs of
// whitespace collapse to one space, and the result is uppercased.
func Normalize(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), " "))
}

// ParseNumber parses a normalized value into a decimal.
// Empty strings and non-numeric values are rejected.
func ParseNumber(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Decimal{}, fmt.Errorf("empty numeric value")
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid numeric value %q: %w", raw, err)
	}
	return d, nil
}

// Selection is a partial mapping from dimension to normalized value, owned
// by one configuration session. It is mutable until staged or committed.
type Selection map[Dimension]string

// NewSelection builds a Selection, normalizing every value.
func NewSelection(values map[Dimension]string) Selection {
	sel := make(Selection, len(values))
	for dim, v := range values {
		sel[dim] = Normalize(v)
	}
	return sel
}

// Set normalizes and stores a value for the dimension.
func (s Selection) Set(dim Dimension, raw string) {
	s[dim] = Normalize(raw)
}

// Get returns the normalized value for the dimension, if present.
func (s Selection) Get(dim Dimension) (string, bool) {
	v, ok := s[dim]
	return v, ok
}

// Number returns the value of a numeric dimension.
func (s Selection) Number(dim Dimension) (decimal.Decimal, error) {
	v, ok := s[dim]
	if !ok {
		return decimal.Decimal{}, shared.NewDomainError("INCOMPLETE_SELECTION",
			fmt.Sprintf("Dimension %s is not selected", dim))
	}
	d, err := ParseNumber(v)
	if err != nil {
		return decimal.Decimal{}, shared.NewDomainError("INCOMPLETE_SELECTION",
			fmt.Sprintf("Dimension %s is not numeric: %v", dim, err))
	}
	return d, nil
}

// Complete reports whether every required dimension of the variant kind is
// present and non-empty. Numeric dimensions must also parse.
func (s Selection) Complete(kind VariantKind) bool {
	return s.MissingDimensions(kind) == nil
}

// MissingDimensions returns the required dimensions that are absent, empty,
// or (for numeric dimensions) unparseable. Nil means the selection is
// complete for the kind.
func (s Selection) MissingDimensions(kind VariantKind) []Dimension {
	spec, ok := variantSpecs[kind]
	if !ok {
		return []Dimension{}
	}
	var missing []Dimension
	for _, dim := range spec.Required {
		v, present := s[dim]
		if !present || strings.TrimSpace(v) == "" {
			missing = append(missing, dim)
			continue
		}
		if isNumericDimension(dim) {
			if _, err := ParseNumber(v); err != nil {
				missing = append(missing, dim)
			}
		}
	}
	return missing
}

// Clone returns an independent copy of the selection.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for dim, v := range s {
		out[dim] = v
	}
	return out
}

func isNumericDimension(dim Dimension) bool {
	switch dim {
	case DimWidth, DimHeight, DimSquareFeet, DimQuantity, DimPageCount:
		return true
	default:
		return false
	}
}
