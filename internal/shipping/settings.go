// Package shipping computes the shipping fee and delivery estimate for a
// quoted cart from city-specific or store-wide rules.
package shipping

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxETADays caps delivery estimates to keep misconfigured rules harmless.
const maxETADays = 60

// ETA is a delivery estimate in business days.
type ETA struct {
	MinDays int `json:"minDays"`
	MaxDays int `json:"maxDays"`
}

// CityRule overrides the store defaults for a single destination city.
// City names are expected unique after normalization.
type CityRule struct {
	City              string           `json:"city"`
	Fee               decimal.Decimal  `json:"fee"`
	FreeAboveSubtotal *decimal.Decimal `json:"freeAboveSubtotal,omitempty"`
	ETAMinDays        *int             `json:"etaMinDays,omitempty"`
	ETAMaxDays        *int             `json:"etaMaxDays,omitempty"`
}

// Settings is the store's shipping configuration snapshot.
type Settings struct {
	DefaultFee        decimal.Decimal  `json:"defaultFee"`
	FreeAboveSubtotal *decimal.Decimal `json:"freeAboveSubtotal,omitempty"`
	ETADefault        ETA              `json:"etaDefault"`
	CityRules         []CityRule       `json:"cityRules,omitempty"`
}

// NormalizeCity trims, collapses internal whitespace and lowercases a city
// name so rule matching is insensitive to formatting.
func NormalizeCity(city string) string {
	return strings.ToLower(strings.Join(strings.Fields(city), " "))
}

// matchRule finds the rule for a destination city, if any.
func (s Settings) matchRule(city string) *CityRule {
	normalized := NormalizeCity(city)
	if normalized == "" {
		return nil
	}
	for i := range s.CityRules {
		if NormalizeCity(s.CityRules[i].City) == normalized {
			return &s.CityRules[i]
		}
	}
	return nil
}

func clampFee(fee decimal.Decimal) decimal.Decimal {
	if fee.IsNegative() {
		return decimal.Zero
	}
	return fee
}

func clampDays(days int) int {
	if days < 0 {
		return 0
	}
	if days > maxETADays {
		return maxETADays
	}
	return days
}
