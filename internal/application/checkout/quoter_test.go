package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printworks/backend/internal/domain/shared"
)

func newQuoter(t *testing.T) *Quoter {
	t.Helper()
	return NewQuoter(newFakeProductRepo(paperPrintProduct(t), canvasProduct(t)))
}

func TestQuoter_Quote_PaperPrint(t *testing.T) {
	result, err := newQuoter(t).Quote(context.Background(), paperPrintRequest())
	require.NoError(t, err)

	assert.Equal(t, "pp-2", result.Quote.RuleID)
	assert.Equal(t, "225", result.Quote.Total.Amount().String())
	assert.Equal(t, "225", result.Total.Amount().String())
	assert.Empty(t, result.AddonCharges)
}

func TestQuoter_Quote_CanvasDerivesSquareFootage(t *testing.T) {
	req := QuoteRequest{
		ProductID: 7,
		Selection: map[string]string{"width": "4", "height": "3"},
	}

	result, err := newQuoter(t).Quote(context.Background(), req)
	require.NoError(t, err)

	require.True(t, result.Quote.Metric.Valid)
	assert.Equal(t, "12", result.Quote.Metric.Decimal.String())
	assert.Equal(t, "1800", result.Total.Amount().String())
}

func TestQuoter_Quote_WithAddons(t *testing.T) {
	req := paperPrintRequest()
	req.Addons = []string{"Lamination"}

	result, err := newQuoter(t).Quote(context.Background(), req)
	require.NoError(t, err)

	// 225 base + 150 pages * 7/page
	assert.Equal(t, "1275", result.Total.Amount().String())
	require.Len(t, result.AddonCharges, 1)
	assert.Equal(t, "1050", result.AddonCharges[0].Amount.Amount().String())
}

func TestQuoter_Quote_UnknownProduct(t *testing.T) {
	req := paperPrintRequest()
	req.ProductID = 999

	_, err := newQuoter(t).Quote(context.Background(), req)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestQuoter_Quote_IncompleteSelection(t *testing.T) {
	req := QuoteRequest{
		ProductID: 42,
		Selection: map[string]string{"paper_size": "A4 Single Side"},
	}

	_, err := newQuoter(t).Quote(context.Background(), req)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INCOMPLETE_SELECTION", domainErr.Code)
}

func TestQuoter_Quote_BindingGate(t *testing.T) {
	req := paperPrintRequest() // A4 BW, 150 pages: spiral left behind at 100

	req.Binding = "Spiral Binding"
	_, err := newQuoter(t).Quote(context.Background(), req)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INCOMPATIBLE_SELECTION", domainErr.Code)

	req.Binding = "Soft Binding"
	_, err = newQuoter(t).Quote(context.Background(), req)
	assert.NoError(t, err)
}
