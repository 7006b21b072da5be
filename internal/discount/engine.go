package discount

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bazaar-dev/storefront-api/internal/money"
)

// RejectionReason explains why an explicitly supplied coupon was not applied.
type RejectionReason string

const (
	// ReasonExpired means the coupon's validity window has closed.
	ReasonExpired RejectionReason = "expired"
	// ReasonBelowMinimum means the subtotal is under the coupon's minimum order amount.
	ReasonBelowMinimum RejectionReason = "below_minimum"
	// ReasonUsageLimitReached means the coupon's usage quota is exhausted.
	ReasonUsageLimitReached RejectionReason = "usage_limit_reached"
	// ReasonInactive covers disabled and unknown coupon codes.
	ReasonInactive RejectionReason = "inactive"
)

// Rejection is surfaced on the quote when a supplied coupon was ineligible.
// The quote still applies the best eligible promotion instead.
type Rejection struct {
	Code   string          `json:"code"`
	Reason RejectionReason `json:"reason"`
}

// Decision is the outcome of discount resolution. At most one of CouponCode
// and PromotionID is set.
type Decision struct {
	Amount          decimal.Decimal
	CouponCode      string
	PromotionID     *uuid.UUID
	PromotionName   string
	CouponRejection *Rejection
}

// Amount computes the clamped discount a candidate yields on the subtotal.
// Percent discounts round to two decimal places; the result never exceeds
// the subtotal nor the optional cap and is never negative.
func Amount(kind Kind, value decimal.Decimal, cap *decimal.Decimal, subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	var amount decimal.Decimal
	switch kind {
	case KindPercent:
		amount = money.Round(subtotal.Mul(value).Div(decimal.NewFromInt(100)))
	default:
		amount = money.Min(value, subtotal)
	}
	if cap != nil && !cap.IsNegative() {
		amount = money.Min(amount, *cap)
	}
	amount = money.Min(amount, subtotal)
	return money.NonNegative(amount)
}

type candidate struct {
	amount decimal.Decimal
	promo  Promotion
}

// Resolve applies the stacking policy: an explicitly supplied, eligible
// coupon beats every promotion; otherwise eligible promotions are ranked by
// priority, then computed discount, then earliest start, and the head wins.
// An ineligible supplied coupon is recorded as a Rejection while resolution
// falls through to the promotions.
func Resolve(now time.Time, subtotal decimal.Decimal, coupon *Coupon, code string, promos []Promotion) Decision {
	decision := Decision{Amount: decimal.Zero}

	code = strings.TrimSpace(code)
	if code != "" {
		switch {
		case coupon == nil:
			decision.CouponRejection = &Rejection{Code: code, Reason: ReasonInactive}
		default:
			if err := coupon.Eligible(now, subtotal); err != nil {
				decision.CouponRejection = &Rejection{Code: coupon.Code, Reason: reasonFor(err)}
			} else {
				decision.Amount = Amount(coupon.Kind, coupon.Value, coupon.MaxDiscountAmount, subtotal)
				decision.CouponCode = coupon.Code
				return decision
			}
		}
	}

	candidates := make([]candidate, 0, len(promos))
	for _, p := range promos {
		if p.Eligible(now, subtotal) != nil {
			continue
		}
		candidates = append(candidates, candidate{
			amount: Amount(p.Kind, p.Value, p.MaxDiscountAmount, subtotal),
			promo:  p,
		})
	}
	if len(candidates) == 0 {
		return decision
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.promo.Priority != b.promo.Priority {
			return a.promo.Priority > b.promo.Priority
		}
		if !a.amount.Equal(b.amount) {
			return a.amount.GreaterThan(b.amount)
		}
		return startsBefore(a.promo.StartsAt, b.promo.StartsAt)
	})

	best := candidates[0]
	id := best.promo.ID
	decision.Amount = best.amount
	decision.PromotionID = &id
	decision.PromotionName = best.promo.Name
	return decision
}

// startsBefore orders start times with nil (always started) first.
func startsBefore(a, b *time.Time) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return a.Before(*b)
}

func reasonFor(err error) RejectionReason {
	switch {
	case errors.Is(err, ErrExpired):
		return ReasonExpired
	case errors.Is(err, ErrBelowMinimum):
		return ReasonBelowMinimum
	case errors.Is(err, ErrUsageLimitReached):
		return ReasonUsageLimitReached
	default:
		return ReasonInactive
	}
}
