package pricing

// VariantKind identifies one of the fixed set of configurable print products.
type VariantKind string

const (
	VariantBusinessCard VariantKind = "business_card"
	VariantCanvasPrint  VariantKind = "canvas_print"
	VariantOffsetPrint  VariantKind = "offset_print"
	VariantLetterhead   VariantKind = "letterhead"
	VariantPhotoFrame   VariantKind = "photo_frame"
	VariantPolaroidCard VariantKind = "polaroid_card"
	VariantNameSlip     VariantKind = "name_slip"
	VariantPaperPrint   VariantKind = "paper_print"
)

// PriceForm describes how a matched rule's price turns into a total.
type PriceForm int

const (
	// PriceFlat charges the rule price once per configuration.
	PriceFlat PriceForm = iota
	// PricePerUnit multiplies the rule price by the selected quantity.
	PricePerUnit
	// PricePerSquareFoot multiplies the rule price by width*height.
	PricePerSquareFoot
	// PricePerPage multiplies the rule price by the page count.
	PricePerPage
)

// VariantSpec declares the configuration schema of one variant kind:
// which dimensions a complete selection must carry, which dimensions its
// pricing rules are keyed by, and how a matched price becomes a total.
type VariantSpec struct {
	Kind     VariantKind
	Required []Dimension // dimensions a complete Selection must populate
	RuleDims []Dimension // dimensions a rule tuple is keyed by
	BandDim  Dimension   // rule dimension matched by numeric band; empty if all discrete
	Form     PriceForm
}

var variantSpecs = map[VariantKind]VariantSpec{
	VariantBusinessCard: {
		Kind:     VariantBusinessCard,
		Required: []Dimension{DimCardType, DimFinish},
		RuleDims: []Dimension{DimCardType, DimFinish},
		Form:     PriceFlat,
	},
	VariantCanvasPrint: {
		Kind:     VariantCanvasPrint,
		Required: []Dimension{DimWidth, DimHeight},
		RuleDims: []Dimension{DimSquareFeet},
		BandDim:  DimSquareFeet,
		Form:     PricePerSquareFoot,
	},
	VariantOffsetPrint: {
		Kind:     VariantOffsetPrint,
		Required: []Dimension{DimNoticeType, DimQuality, DimQuantity},
		RuleDims: []Dimension{DimNoticeType, DimQuality, DimQuantity},
		BandDim:  DimQuantity,
		Form:     PriceFlat,
	},
	VariantLetterhead: {
		Kind:     VariantLetterhead,
		Required: []Dimension{DimPaperSize, DimQuality},
		RuleDims: []Dimension{DimPaperSize, DimQuality},
		Form:     PriceFlat,
	},
	VariantPhotoFrame: {
		Kind:     VariantPhotoFrame,
		Required: []Dimension{DimFrameSize, DimQuantity},
		RuleDims: []Dimension{DimFrameSize, DimQuantity},
		Form:     PricePerUnit,
	},
	VariantPolaroidCard: {
		Kind:     VariantPolaroidCard,
		Required: []Dimension{DimCardSize, DimQuantity},
		RuleDims: []Dimension{DimCardSize, DimQuantity},
		Form:     PricePerUnit,
	},
	VariantNameSlip: {
		Kind:     VariantNameSlip,
		Required: []Dimension{DimSlipType, DimQuantity},
		RuleDims: []Dimension{DimSlipType, DimQuantity},
		Form:     PricePerUnit,
	},
	VariantPaperPrint: {
		Kind:     VariantPaperPrint,
		Required: []Dimension{DimPaperSize, DimColorType, DimPageCount},
		RuleDims: []Dimension{DimPaperSize, DimColorType, DimPageRange},
		BandDim:  DimPageRange,
		Form:     PricePerPage,
	},
}

// SpecFor returns the variant spec for the given kind.
func SpecFor(kind VariantKind) (VariantSpec, bool) {
	spec, ok := variantSpecs[kind]
	return spec, ok
}

// IsValidKind reports whether the string names a known variant kind.
func IsValidKind(kind VariantKind) bool {
	_, ok := variantSpecs[kind]
	return ok
}

// Kinds returns all declared variant kinds.
func Kinds() []VariantKind {
	kinds := make([]VariantKind, 0, len(variantSpecs))
	for k := range variantSpecs {
		kinds = append(kinds, k)
	}
	return kinds
}
