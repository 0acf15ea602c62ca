package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/printworks/backend/internal/domain/catalog"
	"github.com/printworks/backend/internal/domain/pricing"
	"github.com/printworks/backend/internal/domain/shared"
	"github.com/printworks/backend/internal/domain/shared/valueobject"
)

// QuoteRequest carries one configuration to be priced.
type QuoteRequest struct {
	ProductID    int64
	Selection    map[string]string
	Binding      string   // optional, paper prints only
	Addons       []string // optional addon names, paper prints only
	Copies       int64    // optional, defaults to 1
	DocumentRefs []int64
}

// QuoteResult is a priced configuration.
type QuoteResult struct {
	Quote        pricing.Quote         `json:"quote"`
	AddonCharges []pricing.AddonCharge `json:"addon_charges,omitempty"`
	Total        valueobject.Money     `json:"total"`
}

// Quoter turns a selection into a price: compatibility gate first, then
// rule resolution, then addon composition. A failed compatibility check
// short-circuits before any pricing lookup.
type Quoter struct {
	products catalog.ProductRepository
}

// NewQuoter creates a new Quoter
func NewQuoter(products catalog.ProductRepository) *Quoter {
	return &Quoter{products: products}
}

// Quote prices the request, or returns a domain error describing why the
// combination is unavailable.
func (q *Quoter) Quote(ctx context.Context, req QuoteRequest) (QuoteResult, error) {
	product, err := q.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return QuoteResult{}, err
	}

	sel := buildSelection(req.Selection)
	if err := checkCompatibility(product.Kind, sel, req.Binding); err != nil {
		return QuoteResult{}, err
	}

	quote, err := pricing.Resolve(product.Rules, sel)
	if err != nil {
		return QuoteResult{}, err
	}

	total := quote.Total
	var charges []pricing.AddonCharge
	if len(req.Addons) > 0 {
		pages := decimal.Zero
		if quote.Metric.Valid {
			pages = quote.Metric.Decimal
		}
		copies := decimal.NewFromInt(max(req.Copies, 1))
		total, charges, err = pricing.ComposeAddons(quote, product.AddonRules, req.Addons, pages, copies)
		if err != nil {
			return QuoteResult{}, err
		}
	}

	return QuoteResult{Quote: quote, AddonCharges: charges, Total: total}, nil
}

// buildSelection normalizes raw request values into a domain Selection.
func buildSelection(values map[string]string) pricing.Selection {
	sel := make(pricing.Selection, len(values))
	for name, v := range values {
		sel.Set(pricing.Dimension(name), v)
	}
	return sel
}

// checkCompatibility evaluates the static policies for the variant kind.
func checkCompatibility(kind pricing.VariantKind, sel pricing.Selection, binding string) error {
	switch kind {
	case pricing.VariantOffsetPrint:
		noticeType, _ := sel.Get(pricing.DimNoticeType)
		quality, _ := sel.Get(pricing.DimQuality)
		if noticeType != "" && quality != "" && !pricing.QualityAllowed(noticeType, quality) {
			return shared.NewDomainError("INCOMPATIBLE_SELECTION",
				fmt.Sprintf("Quality %s is not offered for notice type %s", quality, noticeType))
		}
	case pricing.VariantPaperPrint:
		paperSize, _ := sel.Get(pricing.DimPaperSize)
		colorType, _ := sel.Get(pricing.DimColorType)
		pages, err := sel.Number(pricing.DimPageCount)
		if err != nil {
			return err
		}
		if reason := pricing.ValidatePrintSelection(paperSize, colorType, pages); reason != "" {
			return shared.NewDomainError("INCOMPATIBLE_SELECTION", reason)
		}
		if binding != "" && !bindingAllowed(paperSize, colorType, pages, binding) {
			return shared.NewDomainError("INCOMPATIBLE_SELECTION",
				fmt.Sprintf("Binding %s is not allowed for %s %s at %s pages", binding, paperSize, colorType, pages))
		}
	}
	return nil
}

func bindingAllowed(paperSize, colorType string, pages decimal.Decimal, binding string) bool {
	norm := pricing.Normalize(binding)
	for _, allowed := range pricing.AllowedBindings(paperSize, colorType, pages) {
		if string(allowed) == norm {
			return true
		}
	}
	return false
}
