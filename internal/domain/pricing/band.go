package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Band is a closed numeric interval declared by a range-bucketed rule,
// e.g. "101-500" or "501 AND ABOVE". An open-ended band has Unbounded set.
type Band struct {
	Min       decimal.Decimal
	Max       decimal.Decimal
	Unbounded bool // no upper limit
}

// ParseBand parses a declared band string. Accepted forms (after
// normalization): "MIN-MAX" and "MIN AND ABOVE".
func ParseBand(raw string) (Band, error) {
	norm := Normalize(raw)

	if rest, found := strings.CutSuffix(norm, " AND ABOVE"); found {
		min, err := ParseNumber(rest)
		if err != nil {
			return Band{}, fmt.Errorf("invalid band %q: %w", raw, err)
		}
		return Band{Min: min, Unbounded: true}, nil
	}

	lo, hi, found := strings.Cut(norm, "-")
	if !found {
		return Band{}, fmt.Errorf("invalid band %q: expected \"min-max\" or \"min and above\"", raw)
	}
	min, err := ParseNumber(lo)
	if err != nil {
		return Band{}, fmt.Errorf("invalid band %q: %w", raw, err)
	}
	max, err := ParseNumber(hi)
	if err != nil {
		return Band{}, fmt.Errorf("invalid band %q: %w", raw, err)
	}
	if max.LessThan(min) {
		return Band{}, fmt.Errorf("invalid band %q: max below min", raw)
	}
	return Band{Min: min, Max: max}, nil
}

// Contains reports whether the value falls inside the band (inclusive).
func (b Band) Contains(value decimal.Decimal) bool {
	if value.LessThan(b.Min) {
		return false
	}
	if b.Unbounded {
		return true
	}
	return value.LessThanOrEqual(b.Max)
}

// Overlaps reports whether two bands share any value.
func (b Band) Overlaps(other Band) bool {
	if b.Unbounded && other.Unbounded {
		return true
	}
	if b.Unbounded {
		return other.Unbounded || other.Max.GreaterThanOrEqual(b.Min)
	}
	if other.Unbounded {
		return b.Max.GreaterThanOrEqual(other.Min)
	}
	return b.Min.LessThanOrEqual(other.Max) && other.Min.LessThanOrEqual(b.Max)
}

// String renders the band in its declared form.
func (b Band) String() string {
	if b.Unbounded {
		return fmt.Sprintf("%s AND ABOVE", b.Min)
	}
	return fmt.Sprintf("%s-%s", b.Min, b.Max)
}
