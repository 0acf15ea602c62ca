package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRate(t *testing.T) {
	tests := []struct {
		raw      string
		wantRate string
		wantUnit RateUnit
		wantErr  bool
	}{
		{raw: "7/page", wantRate: "7", wantUnit: RatePerPage},
		{raw: "7/pages", wantRate: "7", wantUnit: RatePerPage},
		{raw: "12/copy", wantRate: "12", wantUnit: RatePerCopy},
		{raw: "12/copies", wantRate: "12", wantUnit: RatePerCopy},
		{raw: "500", wantRate: "500", wantUnit: RateFlat},
		{raw: " 2.5 / page ", wantRate: "2.5", wantUnit: RatePerPage},
		{raw: "7/sheet", wantErr: true},
		{raw: "abc/page", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			rate, err := ParseRate(tt.raw)
			if tt.wantErr {
				assertDomainCode(t, err, "INVALID_RATE")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRate, rate.Rate.String())
			assert.Equal(t, tt.wantUnit, rate.Unit)
		})
	}
}

func baseQuoteForAddons(t *testing.T) Quote {
	t.Helper()
	sel := NewSelection(map[Dimension]string{
		DimPaperSize: "a4 single side",
		DimColorType: "blackandwhite",
		DimPageCount: "150",
	})
	quote, err := Resolve(paperPrintRuleSet(t), sel)
	require.NoError(t, err)
	return quote
}

func TestComposeAddons_PerPage(t *testing.T) {
	base := baseQuoteForAddons(t)
	catalog := []AddonRule{
		{Addon: "lamination", Tuple: map[Dimension]string{DimPaperSize: "a4 single side", DimColorType: "blackandwhite"}, Rate: "7/page"},
	}

	total, charges, err := ComposeAddons(base, catalog, []string{"Lamination"}, decimal.NewFromInt(150), decimal.NewFromInt(1))
	require.NoError(t, err)

	// 225 base + 150 pages * 7
	assert.True(t, total.Equals(priceINR(t, "1275")), "got %s", total)
	require.Len(t, charges, 1)
	assert.Equal(t, "LAMINATION", charges[0].Addon)
	assert.True(t, charges[0].Amount.Equals(priceINR(t, "1050")))
}

func TestComposeAddons_FlatAndPerCopy(t *testing.T) {
	base := baseQuoteForAddons(t)
	catalog := []AddonRule{
		{Addon: "binding", Tuple: map[Dimension]string{DimPaperSize: "a4 single side"}, Rate: "60"},
		{Addon: "folder", Tuple: map[Dimension]string{DimPaperSize: "a4 single side"}, Rate: "25/copy"},
	}

	total, charges, err := ComposeAddons(base, catalog, []string{"binding", "folder"}, decimal.NewFromInt(150), decimal.NewFromInt(3))
	require.NoError(t, err)

	// 225 base + 60 flat + 3 copies * 25
	assert.True(t, total.Equals(priceINR(t, "360")), "got %s", total)
	assert.Len(t, charges, 2)
}

func TestComposeAddons_NonMatchingTupleSkipped(t *testing.T) {
	base := baseQuoteForAddons(t)
	catalog := []AddonRule{
		{Addon: "lamination", Tuple: map[Dimension]string{DimPaperSize: "a3"}, Rate: "7/page"},
	}

	total, charges, err := ComposeAddons(base, catalog, []string{"lamination"}, decimal.NewFromInt(150), decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, total.Equals(base.Total))
	assert.Empty(t, charges)
}

func TestComposeAddons_UnknownAddonSkipped(t *testing.T) {
	base := baseQuoteForAddons(t)

	total, charges, err := ComposeAddons(base, nil, []string{"gold leaf"}, decimal.NewFromInt(150), decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, total.Equals(base.Total))
	assert.Empty(t, charges)
}

func TestComposeAddons_MalformedRateFails(t *testing.T) {
	base := baseQuoteForAddons(t)
	catalog := []AddonRule{
		{Addon: "lamination", Tuple: map[Dimension]string{DimPaperSize: "a4 single side"}, Rate: "7/sheet"},
	}

	_, _, err := ComposeAddons(base, catalog, []string{"lamination"}, decimal.NewFromInt(150), decimal.NewFromInt(1))
	assertDomainCode(t, err, "INVALID_RATE")
}

func TestComposeAddons_NoneSelected(t *testing.T) {
	base := baseQuoteForAddons(t)

	total, charges, err := ComposeAddons(base, nil, nil, decimal.NewFromInt(150), decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, total.Equals(base.Total))
	assert.Empty(t, charges)
}
