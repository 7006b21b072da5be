package shipping

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bazaar-dev/storefront-api/internal/money"
)

// Result is the computed shipping component of a quote.
type Result struct {
	Amount            decimal.Decimal
	IsFree            bool
	FreeAboveSubtotal *decimal.Decimal
	RemainingForFree  *decimal.Decimal
	ETA               ETA
	ETAText           string
}

// Calculate selects the city rule (or the defaults) and prices shipping for
// the discounted subtotal. The free-shipping threshold is inclusive: a
// subtotal exactly at the threshold ships free. RemainingForFree is set only
// while a threshold exists and has not been reached.
func Calculate(settings Settings, city string, discountedSubtotal decimal.Decimal) Result {
	subtotal := money.NonNegative(discountedSubtotal)
	rule := settings.matchRule(city)

	threshold := settings.FreeAboveSubtotal
	if rule != nil && rule.FreeAboveSubtotal != nil {
		threshold = rule.FreeAboveSubtotal
	}

	var res Result
	res.Amount = decimal.Zero
	if threshold != nil {
		t := money.NonNegative(*threshold)
		res.FreeAboveSubtotal = &t
		if subtotal.GreaterThanOrEqual(t) {
			res.IsFree = true
		} else {
			remaining := t.Sub(subtotal)
			res.RemainingForFree = &remaining
		}
	}
	if !res.IsFree {
		fee := settings.DefaultFee
		if rule != nil {
			fee = rule.Fee
		}
		res.Amount = clampFee(fee)
	}

	eta := settings.ETADefault
	if rule != nil && rule.ETAMinDays != nil && rule.ETAMaxDays != nil {
		eta = ETA{MinDays: *rule.ETAMinDays, MaxDays: *rule.ETAMaxDays}
	}
	eta.MinDays = clampDays(eta.MinDays)
	eta.MaxDays = clampDays(eta.MaxDays)
	if eta.MaxDays < eta.MinDays {
		eta.MaxDays = eta.MinDays
	}
	res.ETA = eta
	res.ETAText = etaText(eta)
	return res
}

func etaText(eta ETA) string {
	if eta.MinDays == 0 && eta.MaxDays == 0 {
		return ""
	}
	if eta.MinDays == eta.MaxDays {
		return fmt.Sprintf("Delivery in %d business days", eta.MinDays)
	}
	return fmt.Sprintf("Delivery in %d–%d business days", eta.MinDays, eta.MaxDays)
}
