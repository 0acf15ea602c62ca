package checkout

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/printworks/backend/internal/domain/cart"
	"github.com/printworks/backend/internal/domain/catalog"
	"github.com/printworks/backend/internal/domain/pricing"
	"github.com/printworks/backend/internal/domain/shared"
	"github.com/printworks/backend/internal/domain/shared/valueobject"
)

// Test fakes shared by the checkout tests.

type fakeProductRepo struct {
	products map[int64]*catalog.Product
}

func newFakeProductRepo(products ...*catalog.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[int64]*catalog.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(ctx context.Context) ([]*catalog.Product, error) {
	out := make([]*catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

// fakeCartService records appends and supports failure injection.
type fakeCartService struct {
	mu        sync.Mutex
	lines     map[string][]cart.Line
	nextID    int64
	appends   int
	failGet   error
	failAppnd error
}

func newFakeCartService() *fakeCartService {
	return &fakeCartService{lines: make(map[string][]cart.Line), nextID: 1}
}

func (s *fakeCartService) Get(ctx context.Context, sessionID string) (cart.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet != nil {
		return cart.Snapshot{}, s.failGet
	}
	return cart.Snapshot{Lines: append([]cart.Line(nil), s.lines[sessionID]...)}, nil
}

func (s *fakeCartService) AppendItem(ctx context.Context, sessionID string, req cart.AppendRequest) (cart.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAppnd != nil {
		return cart.Line{}, s.failAppnd
	}
	line := cart.Line{
		ID:            s.nextID,
		ProductID:     req.ProductID,
		Attributes:    req.Attributes,
		DerivedMetric: req.DerivedMetric,
		DocumentRefs:  req.DocumentRefs,
		Total:         valueobject.ZeroINR(),
	}
	s.nextID++
	s.appends++
	s.lines[sessionID] = append(s.lines[sessionID], line)
	return line, nil
}

func (s *fakeCartService) appendCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appends
}

func (s *fakeCartService) lineCount(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines[sessionID])
}

// recordingBus captures published events.
type recordingBus struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (b *recordingBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, events...)
	return nil
}

func (b *recordingBus) eventTypes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	types := make([]string, 0, len(b.events))
	for _, e := range b.events {
		types = append(types, e.EventType())
	}
	return types
}

// Fixtures.

func paperPrintProduct(t *testing.T) *catalog.Product {
	t.Helper()
	price := func(amount string) valueobject.Money {
		m, err := valueobject.NewMoneyINRFromString(amount)
		require.NoError(t, err)
		return m
	}
	product, err := catalog.NewProduct(42, "PAPER-PRINT", "Paper Print", pricing.VariantPaperPrint,
		[]pricing.PricingRule{
			{ID: "pp-1", Tuple: map[pricing.Dimension]string{pricing.DimPaperSize: "a4 single side", pricing.DimColorType: "blackandwhite", pricing.DimPageRange: "1-100"}, Price: price("2")},
			{ID: "pp-2", Tuple: map[pricing.Dimension]string{pricing.DimPaperSize: "a4 single side", pricing.DimColorType: "blackandwhite", pricing.DimPageRange: "101-500"}, Price: price("1.5")},
			{ID: "pp-3", Tuple: map[pricing.Dimension]string{pricing.DimPaperSize: "13x19", pricing.DimColorType: "colour", pricing.DimPageRange: "1-100"}, Price: price("20")},
		},
		[]pricing.AddonRule{
			{Addon: "lamination", Tuple: map[pricing.Dimension]string{pricing.DimPaperSize: "A4 SINGLE SIDE", pricing.DimColorType: "BLACKANDWHITE"}, Rate: "7/page"},
		},
	)
	require.NoError(t, err)
	return product
}

func canvasProduct(t *testing.T) *catalog.Product {
	t.Helper()
	price, err := valueobject.NewMoneyINRFromString("150")
	require.NoError(t, err)
	product, err := catalog.NewProduct(7, "CANVAS", "Canvas Print", pricing.VariantCanvasPrint,
		[]pricing.PricingRule{
			{ID: "cv-1", Tuple: map[pricing.Dimension]string{pricing.DimSquareFeet: "1-20"}, Price: price},
		}, nil)
	require.NoError(t, err)
	return product
}

func paperPrintRequest() QuoteRequest {
	return QuoteRequest{
		ProductID: 42,
		Selection: map[string]string{
			"paper_size": "A4 Single Side",
			"color_type": "BlackAndWhite",
			"page_count": "150",
		},
	}
}

func stagedPaperPrintOp(t *testing.T) cart.PendingCartOperation {
	t.Helper()
	product := paperPrintProduct(t)
	sel := buildSelection(paperPrintRequest().Selection)
	quote, err := pricing.Resolve(product.Rules, sel)
	require.NoError(t, err)
	return cart.NewPendingCartOperation(quote, product.ID, sel, nil)
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
