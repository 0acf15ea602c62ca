package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printworks/backend/internal/domain/cart"
	"github.com/printworks/backend/internal/domain/catalog"
	"github.com/printworks/backend/internal/domain/pricing"
	"github.com/printworks/backend/internal/domain/shared"
	"github.com/printworks/backend/internal/domain/shared/valueobject"
	"github.com/printworks/backend/internal/infrastructure/persistence/models"
)

func testDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedPaperPrint(t *testing.T, db *Database) *catalog.Product {
	t.Helper()
	price := func(amount string) valueobject.Money {
		m, err := valueobject.NewMoneyINRFromString(amount)
		require.NoError(t, err)
		return m
	}
	product, err := catalog.NewProduct(1, "PAPER-PRINT", "Paper Print", pricing.VariantPaperPrint,
		[]pricing.PricingRule{
			{ID: "pp-1", Tuple: map[pricing.Dimension]string{pricing.DimPaperSize: "a4 single side", pricing.DimColorType: "blackandwhite", pricing.DimPageRange: "1-100"}, Price: price("2")},
			{ID: "pp-2", Tuple: map[pricing.Dimension]string{pricing.DimPaperSize: "a4 single side", pricing.DimColorType: "blackandwhite", pricing.DimPageRange: "101-500"}, Price: price("1.5")},
		},
		[]pricing.AddonRule{
			{Addon: "lamination", Tuple: map[pricing.Dimension]string{pricing.DimPaperSize: "A4 SINGLE SIDE"}, Rate: "7/page"},
		},
	)
	require.NoError(t, err)

	repo := NewGormProductRepository(db.DB)
	require.NoError(t, repo.Save(context.Background(), product))
	return product
}

func TestGormProductRepository_SaveAndFind(t *testing.T) {
	db := testDatabase(t)
	seedPaperPrint(t, db)
	repo := NewGormProductRepository(db.DB)
	ctx := context.Background()

	found, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "PAPER-PRINT", found.Code)
	assert.Equal(t, pricing.VariantPaperPrint, found.Kind)
	assert.Equal(t, 2, found.Rules.Len())
	require.Len(t, found.AddonRules, 1)
	assert.Equal(t, "7/page", found.AddonRules[0].Rate)

	byCode, err := repo.FindByCode(ctx, "paper-print")
	require.NoError(t, err)
	assert.Equal(t, found.ID, byCode.ID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGormProductRepository_NotFound(t *testing.T) {
	db := testDatabase(t)
	repo := NewGormProductRepository(db.DB)

	_, err := repo.FindByID(context.Background(), 999)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindByCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_RehydrationValidatesRules(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()

	// Two rows with the same tuple slip into storage behind the
	// repository's back; loading must fail, not silently pick one.
	row := models.ProductModel{
		ID:   5,
		Code: "BAD",
		Name: "Broken",
		Kind: string(pricing.VariantBusinessCard),
		PricingRules: []models.PricingRuleModel{
			{ProductID: 5, RuleID: "r1", Tuple: `{"card_type":"STANDARD","finish":"MATTE"}`, Price: decimal.NewFromInt(250)},
			{ProductID: 5, RuleID: "r2", Tuple: `{"card_type":"STANDARD","finish":"MATTE"}`, Price: decimal.NewFromInt(300)},
		},
	}
	require.NoError(t, db.DB.Create(&row).Error)

	_, err := NewGormProductRepository(db.DB).FindByID(ctx, 5)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_RULESET", domainErr.Code)
}

func TestGormCartService_AppendRepricesServerSide(t *testing.T) {
	db := testDatabase(t)
	seedPaperPrint(t, db)
	repo := NewGormProductRepository(db.DB)
	carts := NewGormCartService(db.DB, repo)
	ctx := context.Background()

	line, err := carts.AppendItem(ctx, "s1", cart.AppendRequest{
		ProductID: 1,
		Attributes: map[string]string{
			"paper_size": "A4 SINGLE SIDE",
			"color_type": "BLACKANDWHITE",
			"page_range": "101-500",
		},
		DerivedMetric: decimal.NewNullDecimal(decimal.NewFromInt(150)),
		DocumentRefs:  []int64{9},
	})
	require.NoError(t, err)

	// 1.5/page * 150 pages, computed from the stored rule.
	assert.Equal(t, "225", line.Total.Amount().String())
	assert.Equal(t, []int64{9}, line.DocumentRefs)

	snapshot, err := carts.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, snapshot.Lines, 1)
	assert.Equal(t, line.ID, snapshot.Lines[0].ID)
	assert.Equal(t, "A4 SINGLE SIDE", snapshot.Lines[0].Attributes["paper_size"])
	require.True(t, snapshot.Lines[0].DerivedMetric.Valid)
}

func TestGormCartService_AppendUnknownTuple(t *testing.T) {
	db := testDatabase(t)
	seedPaperPrint(t, db)
	carts := NewGormCartService(db.DB, NewGormProductRepository(db.DB))

	_, err := carts.AppendItem(context.Background(), "s1", cart.AppendRequest{
		ProductID: 1,
		Attributes: map[string]string{
			"paper_size": "A3",
			"color_type": "BLACKANDWHITE",
			"page_range": "1-100",
		},
		DerivedMetric: decimal.NewNullDecimal(decimal.NewFromInt(50)),
	})
	assert.ErrorIs(t, err, shared.ErrNoMatchingRule)
}

func TestGormCartService_SessionsAreIsolated(t *testing.T) {
	db := testDatabase(t)
	seedPaperPrint(t, db)
	carts := NewGormCartService(db.DB, NewGormProductRepository(db.DB))
	ctx := context.Background()

	req := cart.AppendRequest{
		ProductID: 1,
		Attributes: map[string]string{
			"paper_size": "A4 SINGLE SIDE",
			"color_type": "BLACKANDWHITE",
			"page_range": "1-100",
		},
		DerivedMetric: decimal.NewNullDecimal(decimal.NewFromInt(50)),
	}
	_, err := carts.AppendItem(ctx, "s1", req)
	require.NoError(t, err)

	other, err := carts.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other.Lines)
}
