package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/printworks/backend/internal/domain/shared"
	"github.com/printworks/backend/internal/domain/shared/valueobject"
)

// PricingRule maps one full tuple of dimension values to a unit price.
// For the variant's band dimension the tuple value is a declared band
// string (e.g. "101-500") rather than a discrete value.
type PricingRule struct {
	ID    string
	Tuple map[Dimension]string
	Price valueobject.Money
}

// NormalizedTuple returns the rule tuple with every value normalized.
func (r PricingRule) NormalizedTuple() map[Dimension]string {
	out := make(map[Dimension]string, len(r.Tuple))
	for dim, v := range r.Tuple {
		out[dim] = Normalize(v)
	}
	return out
}

// RuleSet is a validated pricing-rule list for one variant kind.
// Construction fails loudly when two rules share a dimension tuple or when
// two bands with the same discrete context overlap; the catalog never
// silently takes the first of two ambiguous rules.
type RuleSet struct {
	kind  VariantKind
	spec  VariantSpec
	rules []PricingRule
}

// NewRuleSet validates and builds a rule set for the variant kind.
func NewRuleSet(kind VariantKind, rules []PricingRule) (*RuleSet, error) {
	spec, ok := variantSpecs[kind]
	if !ok {
		return nil, shared.NewDomainError("INVALID_RULESET",
			fmt.Sprintf("Unknown variant kind %q", kind))
	}

	normalized := make([]PricingRule, len(rules))
	seen := make(map[string]string, len(rules))
	bandsByContext := make(map[string][]Band)

	for i, rule := range rules {
		tuple := rule.NormalizedTuple()
		for _, dim := range spec.RuleDims {
			if strings.TrimSpace(tuple[dim]) == "" {
				return nil, shared.NewDomainError("INVALID_RULESET",
					fmt.Sprintf("Rule %s is missing dimension %s", rule.ID, dim))
			}
		}

		key := tupleKey(tuple, spec.RuleDims)
		if dup, exists := seen[key]; exists {
			return nil, shared.NewDomainError("INVALID_RULESET",
				fmt.Sprintf("Rules %s and %s declare the same dimension tuple", dup, rule.ID))
		}
		seen[key] = rule.ID

		if spec.BandDim != "" {
			band, err := ParseBand(tuple[spec.BandDim])
			if err != nil {
				return nil, shared.NewDomainError("INVALID_RULESET",
					fmt.Sprintf("Rule %s: %v", rule.ID, err))
			}
			ctx := tupleKey(tuple, discreteDims(spec))
			for _, existing := range bandsByContext[ctx] {
				if band.Overlaps(existing) {
					return nil, shared.NewDomainError("INVALID_RULESET",
						fmt.Sprintf("Rule %s band %s overlaps another band in the same context", rule.ID, band))
				}
			}
			bandsByContext[ctx] = append(bandsByContext[ctx], band)
		}

		normalized[i] = PricingRule{ID: rule.ID, Tuple: tuple, Price: rule.Price}
	}

	return &RuleSet{kind: kind, spec: spec, rules: normalized}, nil
}

// Kind returns the variant kind the rule set belongs to.
func (rs *RuleSet) Kind() VariantKind {
	return rs.kind
}

// Rules returns the validated, normalized rules.
func (rs *RuleSet) Rules() []PricingRule {
	return rs.rules
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// tupleKey builds a deterministic key from the listed dimensions of a tuple.
func tupleKey(tuple map[Dimension]string, dims []Dimension) string {
	sorted := make([]string, 0, len(dims))
	for _, dim := range dims {
		sorted = append(sorted, string(dim)+"="+tuple[dim])
	}
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}

// discreteDims returns the rule dimensions matched by exact equality.
func discreteDims(spec VariantSpec) []Dimension {
	dims := make([]Dimension, 0, len(spec.RuleDims))
	for _, dim := range spec.RuleDims {
		if dim != spec.BandDim {
			dims = append(dims, dim)
		}
	}
	return dims
}
