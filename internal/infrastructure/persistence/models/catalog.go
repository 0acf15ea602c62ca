package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for catalog products
type ProductModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Code      string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name      string `gorm:"type:varchar(200);not null"`
	Kind      string `gorm:"type:varchar(30);not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	PricingRules []PricingRuleModel `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	AddonRules   []AddonRuleModel   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// PricingRuleModel is one attribute tuple to price mapping.
// Tuple is stored as a JSON object of dimension name to value.
type PricingRuleModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	ProductID int64           `gorm:"not null;index"`
	RuleID    string          `gorm:"type:varchar(50);not null"`
	Tuple     string          `gorm:"type:text;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PricingRuleModel) TableName() string {
	return "pricing_rules"
}

// AddonRuleModel is one addon rule keyed by the base rule tuple.
type AddonRuleModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	ProductID int64  `gorm:"not null;index"`
	Addon     string `gorm:"type:varchar(50);not null;index"`
	Tuple     string `gorm:"type:text;not null"`
	Rate      string `gorm:"type:varchar(30);not null"`
}

// TableName returns the table name for GORM
func (AddonRuleModel) TableName() string {
	return "addon_rules"
}

// CartLineModel is one committed cart line item
type CartLineModel struct {
	ID            int64               `gorm:"primaryKey;autoIncrement"`
	SessionID     string              `gorm:"type:varchar(100);not null;index"`
	ProductID     int64               `gorm:"not null;index"`
	Attributes    string              `gorm:"type:text;not null"`
	DerivedMetric decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	DocumentRefs  string              `gorm:"type:text"`
	Total         decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	CreatedAt     time.Time
}

// TableName returns the table name for GORM
func (CartLineModel) TableName() string {
	return "cart_lines"
}
