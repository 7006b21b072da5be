// Package currency converts base-currency amounts for display only. Pricing,
// discount and shipping math always runs in the base currency; a conversion
// never feeds back into stored or computed totals.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bazaar-dev/storefront-api/internal/money"
)

// Presenter formats base-currency amounts in a requested display currency
// using a caller-supplied exchange rate.
type Presenter struct {
	Base string
}

// Normalize uppercases and trims a currency code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ShouldConvert reports whether a conversion applies for the requested
// display currency and rate. Identity and invalid rates mean no conversion.
func (p Presenter) ShouldConvert(display string, rate decimal.Decimal) bool {
	display = Normalize(display)
	if display == "" || display == Normalize(p.Base) {
		return false
	}
	return rate.IsPositive()
}

// Convert applies the exchange rate and rounds to two minor-unit places.
// When no conversion applies the base amount is returned unchanged.
func (p Presenter) Convert(amount decimal.Decimal, display string, rate decimal.Decimal) decimal.Decimal {
	if !p.ShouldConvert(display, rate) {
		return amount
	}
	return money.Round(amount.Mul(rate))
}
