package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/printworks/backend/internal/domain/cart"
	"github.com/printworks/backend/internal/domain/catalog"
	"github.com/printworks/backend/internal/domain/pricing"
	"github.com/printworks/backend/internal/domain/shared/valueobject"
	"github.com/printworks/backend/internal/infrastructure/persistence/models"
)

// GormCartService implements the cart.Service collaborator on the local
// database. Line totals are recomputed server-side from the resolved
// attribute identities; the client-supplied quote is never trusted.
type GormCartService struct {
	db       *gorm.DB
	products catalog.ProductRepository
}

// NewGormCartService creates a new GormCartService
func NewGormCartService(db *gorm.DB, products catalog.ProductRepository) *GormCartService {
	return &GormCartService{db: db, products: products}
}

// Get fetches a fresh snapshot of the session's cart
func (s *GormCartService) Get(ctx context.Context, sessionID string) (cart.Snapshot, error) {
	var rows []models.CartLineModel
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id").
		Find(&rows).Error; err != nil {
		return cart.Snapshot{}, fmt.Errorf("fetch cart: %w", err)
	}

	snapshot := cart.Snapshot{Lines: make([]cart.Line, 0, len(rows))}
	for _, row := range rows {
		line, err := toDomainLine(row)
		if err != nil {
			return cart.Snapshot{}, err
		}
		snapshot.Lines = append(snapshot.Lines, line)
	}
	return snapshot, nil
}

// AppendItem appends a configured item and returns the created line
func (s *GormCartService) AppendItem(ctx context.Context, sessionID string, req cart.AppendRequest) (cart.Line, error) {
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return cart.Line{}, err
	}

	tuple := make(map[pricing.Dimension]string, len(req.Attributes))
	for name, v := range req.Attributes {
		tuple[pricing.Dimension(name)] = v
	}
	total, err := pricing.PriceForTuple(product.Rules, tuple, req.DerivedMetric)
	if err != nil {
		return cart.Line{}, err
	}

	attributes, err := json.Marshal(req.Attributes)
	if err != nil {
		return cart.Line{}, fmt.Errorf("encode attributes: %w", err)
	}
	refs, err := json.Marshal(req.DocumentRefs)
	if err != nil {
		return cart.Line{}, fmt.Errorf("encode document refs: %w", err)
	}

	row := models.CartLineModel{
		SessionID:     sessionID,
		ProductID:     req.ProductID,
		Attributes:    string(attributes),
		DerivedMetric: req.DerivedMetric,
		DocumentRefs:  string(refs),
		Total:         total.Amount(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return cart.Line{}, fmt.Errorf("append cart line: %w", err)
	}
	return toDomainLine(row)
}

func toDomainLine(row models.CartLineModel) (cart.Line, error) {
	var attributes map[string]string
	if err := json.Unmarshal([]byte(row.Attributes), &attributes); err != nil {
		return cart.Line{}, fmt.Errorf("cart line %d attributes: %w", row.ID, err)
	}
	var refs []int64
	if row.DocumentRefs != "" {
		if err := json.Unmarshal([]byte(row.DocumentRefs), &refs); err != nil {
			return cart.Line{}, fmt.Errorf("cart line %d document refs: %w", row.ID, err)
		}
	}
	return cart.Line{
		ID:            row.ID,
		ProductID:     row.ProductID,
		Attributes:    attributes,
		DerivedMetric: row.DerivedMetric,
		DocumentRefs:  refs,
		Total:         valueobject.NewMoneyINR(row.Total),
	}, nil
}

// Ensure GormCartService implements cart.Service
var _ cart.Service = (*GormCartService)(nil)
