package catalog

import (
	"strings"
	"time"

	"github.com/printworks/backend/internal/domain/pricing"
	"github.com/printworks/backend/internal/domain/shared"
)

// Product is a configurable print product in the catalog. It is the
// aggregate root for catalog operations: its pricing-rule list is validated
// on construction, so an ambiguous catalog fails at load time instead of
// silently pricing with the first of two conflicting rules.
type Product struct {
	ID         int64
	Code       string
	Name       string
	Kind       pricing.VariantKind
	Rules      *pricing.RuleSet
	AddonRules []pricing.AddonRule
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewProduct validates and builds a product with its pricing rules.
func NewProduct(id int64, code, name string, kind pricing.VariantKind, rules []pricing.PricingRule, addonRules []pricing.AddonRule) (*Product, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !pricing.IsValidKind(kind) {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown product variant kind")
	}

	ruleSet, err := pricing.NewRuleSet(kind, rules)
	if err != nil {
		return nil, err
	}
	if err := validateAddonRules(addonRules); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Product{
		ID:         id,
		Code:       strings.ToUpper(code),
		Name:       name,
		Kind:       kind,
		Rules:      ruleSet,
		AddonRules: addonRules,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// RequiredDimensions returns the dimensions a complete selection must carry.
func (p *Product) RequiredDimensions() []pricing.Dimension {
	spec, _ := pricing.SpecFor(p.Kind)
	return spec.Required
}

// validateAddonRules rejects addon rules whose rate strings cannot be
// parsed. A malformed rate is a data error the catalog surfaces at load.
func validateAddonRules(rules []pricing.AddonRule) error {
	for _, rule := range rules {
		if strings.TrimSpace(rule.Addon) == "" {
			return shared.NewDomainError("INVALID_RULESET", "Addon rule without an addon name")
		}
		if _, err := pricing.ParseRate(rule.Rate); err != nil {
			return err
		}
	}
	return nil
}

func validateCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
