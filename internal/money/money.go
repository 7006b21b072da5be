// Package money holds the conventions for monetary amounts. All prices and
// totals are decimals in the store's base currency; rounding to two decimal
// places happens only where a component explicitly calls for it.
package money

import "github.com/shopspring/decimal"

func init() {
	// Monetary fields serialise as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Round rounds an amount to the base currency's two minor-unit places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// NonNegative floors an amount at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Min returns the smaller of two amounts.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
