package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/printworks/backend/internal/domain/catalog"
	"github.com/printworks/backend/internal/domain/pricing"
	"github.com/printworks/backend/internal/domain/shared"
	"github.com/printworks/backend/internal/domain/shared/valueobject"
	"github.com/printworks/backend/internal/infrastructure/persistence/models"
)

// GormProductRepository implements catalog.ProductRepository using GORM.
// Rehydration goes through catalog.NewProduct, so a stored rule list that
// violates the uniqueness or band invariants fails loudly at load time.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID returns the product with the given ID
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	err := r.db.WithContext(ctx).
		Preload("PricingRules").
		Preload("AddonRules").
		First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return toDomainProduct(&model)
}

// FindByCode returns the product with the given code
func (r *GormProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	var model models.ProductModel
	err := r.db.WithContext(ctx).
		Preload("PricingRules").
		Preload("AddonRules").
		Where("code = ?", strings.ToUpper(code)).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product by code %s: %w", code, err)
	}
	return toDomainProduct(&model)
}

// FindAll returns all products
func (r *GormProductRepository) FindAll(ctx context.Context) ([]*catalog.Product, error) {
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).
		Preload("PricingRules").
		Preload("AddonRules").
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products := make([]*catalog.Product, 0, len(rows))
	for i := range rows {
		product, err := toDomainProduct(&rows[i])
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// Save persists a product and its rule lists
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model, err := fromDomainProduct(product)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

func toDomainProduct(model *models.ProductModel) (*catalog.Product, error) {
	rules := make([]pricing.PricingRule, 0, len(model.PricingRules))
	for _, row := range model.PricingRules {
		tuple, err := decodeTuple(row.Tuple)
		if err != nil {
			return nil, fmt.Errorf("product %d rule %s: %w", model.ID, row.RuleID, err)
		}
		rules = append(rules, pricing.PricingRule{
			ID:    row.RuleID,
			Tuple: tuple,
			Price: valueobject.NewMoneyINR(row.Price),
		})
	}

	addonRules := make([]pricing.AddonRule, 0, len(model.AddonRules))
	for _, row := range model.AddonRules {
		tuple, err := decodeTuple(row.Tuple)
		if err != nil {
			return nil, fmt.Errorf("product %d addon %s: %w", model.ID, row.Addon, err)
		}
		addonRules = append(addonRules, pricing.AddonRule{
			Addon: row.Addon,
			Tuple: tuple,
			Rate:  row.Rate,
		})
	}

	return catalog.NewProduct(model.ID, model.Code, model.Name, pricing.VariantKind(model.Kind), rules, addonRules)
}

func fromDomainProduct(product *catalog.Product) (*models.ProductModel, error) {
	model := &models.ProductModel{
		ID:        product.ID,
		Code:      product.Code,
		Name:      product.Name,
		Kind:      string(product.Kind),
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
	for _, rule := range product.Rules.Rules() {
		tuple, err := encodeTuple(rule.Tuple)
		if err != nil {
			return nil, err
		}
		model.PricingRules = append(model.PricingRules, models.PricingRuleModel{
			ProductID: product.ID,
			RuleID:    rule.ID,
			Tuple:     tuple,
			Price:     rule.Price.Amount(),
		})
	}
	for _, rule := range product.AddonRules {
		tuple, err := encodeTuple(rule.Tuple)
		if err != nil {
			return nil, err
		}
		model.AddonRules = append(model.AddonRules, models.AddonRuleModel{
			ProductID: product.ID,
			Addon:     rule.Addon,
			Tuple:     tuple,
			Rate:      rule.Rate,
		})
	}
	return model, nil
}

func decodeTuple(raw string) (map[pricing.Dimension]string, error) {
	var tuple map[pricing.Dimension]string
	if err := json.Unmarshal([]byte(raw), &tuple); err != nil {
		return nil, fmt.Errorf("invalid tuple JSON: %w", err)
	}
	return tuple, nil
}

func encodeTuple(tuple map[pricing.Dimension]string) (string, error) {
	data, err := json.Marshal(tuple)
	if err != nil {
		return "", fmt.Errorf("encode tuple: %w", err)
	}
	return string(data), nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
