package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BindingType is a document binding offered for paper prints.
type BindingType string

const (
	BindingSpiral BindingType = "SPIRAL BINDING"
	BindingSoft   BindingType = "SOFT BINDING"
	BindingHard   BindingType = "HARD BINDING"
)

// ColorType values for paper prints.
const (
	ColorBlackAndWhite = "BLACKANDWHITE"
	ColorColour        = "COLOUR"
)

// bindingBand is one page-count band of the binding table.
type bindingBand struct {
	maxPages int64 // inclusive upper page bound
	allowed  []BindingType
}

// bindingTable restricts bindings by paper size and color mode. Sizes absent
// from the table impose no restriction.
var bindingTable = map[string]map[string][]bindingBand{
	"A4 SINGLE SIDE": {
		ColorBlackAndWhite: {
			{maxPages: 100, allowed: []BindingType{BindingSpiral, BindingSoft, BindingHard}},
			{maxPages: 500, allowed: []BindingType{BindingSoft, BindingHard}},
		},
		ColorColour: {
			{maxPages: 50, allowed: []BindingType{BindingSpiral, BindingSoft, BindingHard}},
			{maxPages: 250, allowed: []BindingType{BindingSoft, BindingHard}},
		},
	},
	"A4 DOUBLE SIDE": {
		ColorBlackAndWhite: {
			{maxPages: 100, allowed: []BindingType{BindingSpiral, BindingSoft, BindingHard}},
			{maxPages: 500, allowed: []BindingType{BindingSoft, BindingHard}},
		},
		ColorColour: {
			{maxPages: 50, allowed: []BindingType{BindingSpiral, BindingSoft, BindingHard}},
			{maxPages: 250, allowed: []BindingType{BindingSoft, BindingHard}},
		},
	},
	"A5 SINGLE SIDE": {
		ColorBlackAndWhite: {
			{maxPages: 100, allowed: []BindingType{BindingSpiral, BindingSoft, BindingHard}},
			{maxPages: 500, allowed: []BindingType{BindingSoft, BindingHard}},
		},
		ColorColour: {
			{maxPages: 50, allowed: []BindingType{BindingSpiral, BindingSoft, BindingHard}},
			{maxPages: 250, allowed: []BindingType{BindingSoft, BindingHard}},
		},
	},
	"A3": {
		ColorBlackAndWhite: {
			{maxPages: 100, allowed: []BindingType{BindingSoft, BindingHard}},
		},
		// A3 colour disallows all bindings: no bands at all.
		ColorColour: {},
	},
	// Large-format sheets never bind, regardless of color or page count.
	"12X18": {
		ColorBlackAndWhite: {},
		ColorColour:        {},
	},
	"13X19": {
		ColorBlackAndWhite: {},
		ColorColour:        {},
	},
}

// AllBindings returns every binding type, in catalog order.
func AllBindings() []BindingType {
	return []BindingType{BindingSpiral, BindingSoft, BindingHard}
}

// AllowedBindings returns the binding types legal for the paper size, color
// mode and page count. A paper size not covered by an explicit rule allows
// everything; a covered size whose bands are exhausted allows nothing.
func AllowedBindings(paperSize, colorType string, pageCount decimal.Decimal) []BindingType {
	byColor, sized := bindingTable[Normalize(paperSize)]
	if !sized {
		return AllBindings()
	}
	bands, colored := byColor[Normalize(colorType)]
	if !colored {
		return AllBindings()
	}
	for _, band := range bands {
		if pageCount.LessThanOrEqual(decimal.NewFromInt(band.maxPages)) {
			return band.allowed
		}
	}
	return nil
}

// qualityTable restricts the offset-print qualities offered for certain
// notice types. Notice types absent from the table impose no restriction.
var qualityTable = map[string][]string{
	"A5(SINGLE SIDE)": {"100GSM"},
	"A5(DOUBLE SIDE)": {"100GSM"},
	"A6(SINGLE SIDE)": {"100GSM", "80GSM"},
}

// AllowedQualities returns the qualities legal for the notice type.
// A nil result means every catalog quality remains selectable.
func AllowedQualities(noticeType string) []string {
	allowed, restricted := qualityTable[Normalize(noticeType)]
	if !restricted {
		return nil
	}
	return allowed
}

// QualityAllowed reports whether the quality may be offered for the notice type.
func QualityAllowed(noticeType, quality string) bool {
	allowed := AllowedQualities(noticeType)
	if allowed == nil {
		return true
	}
	norm := Normalize(quality)
	for _, q := range allowed {
		if q == norm {
			return true
		}
	}
	return false
}

// ValidatePrintSelection flags paper-print combinations the shop cannot
// produce. It returns a human-readable reason, or "" when the combination
// is valid. Policies gate what is offered, not what exists in the catalog,
// so this runs before any pricing lookup.
func ValidatePrintSelection(paperSize, colorType string, pageCount decimal.Decimal) string {
	size := Normalize(paperSize)
	color := Normalize(colorType)

	if size == "12X18" && color == ColorColour && pageCount.LessThan(decimal.NewFromInt(50)) {
		return fmt.Sprintf("12x18 colour printing requires at least 50 pages, got %s", pageCount)
	}
	if size == "13X19" && color == ColorBlackAndWhite {
		return "13x19 is available in colour only"
	}
	return ""
}
