package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bazaar-dev/storefront-api/internal/availability"
	"github.com/bazaar-dev/storefront-api/internal/catalog"
	"github.com/bazaar-dev/storefront-api/internal/discount"
	"github.com/bazaar-dev/storefront-api/internal/money"
	"github.com/bazaar-dev/storefront-api/internal/obs"
	"github.com/bazaar-dev/storefront-api/internal/shipping"
)

// ErrInvalidLine is returned for malformed cart lines the handler-level
// validation did not catch.
var ErrInvalidLine = errors.New("invalid cart line")

// TaxFunc computes an external tax amount for the discounted subtotal.
type TaxFunc func(ctx context.Context, discountedSubtotal decimal.Decimal, city string) (decimal.Decimal, error)

// Service is the quote orchestrator. Given its collaborators it is a pure
// function of the request and the snapshot fetched at call time: identical
// inputs and unchanged backing data produce byte-identical quotes.
type Service struct {
	Catalog   catalog.Resolver
	Discounts discount.Source
	Shipping  shipping.Source
	Tax       TaxFunc
	Now       func() time.Time
	Logger    zerolog.Logger
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Quote prices the cart. Only malformed input and an unreachable catalog are
// fatal; unavailable lines, rejected coupons and missing shipping settings
// degrade into fields on the returned quote.
func (s *Service) Quote(ctx context.Context, req Request) (Quote, error) {
	if s == nil || s.Catalog == nil || s.Discounts == nil || s.Shipping == nil {
		return Quote{}, errors.New("quote service not configured")
	}
	for i, line := range req.Items {
		if strings.TrimSpace(line.ProductID) == "" {
			return Quote{}, fmt.Errorf("items[%d]: productId required: %w", i, ErrInvalidLine)
		}
		if line.Quantity <= 0 {
			return Quote{}, fmt.Errorf("items[%d]: quantity must be positive: %w", i, ErrInvalidLine)
		}
	}

	q := Quote{
		Items:          []ResolvedLine{},
		ItemsSubtotal:  decimal.Zero,
		DiscountAmount: decimal.Zero,
		ShippingAmount: decimal.Zero,
		TaxAmount:      decimal.Zero,
		TotalAmount:    decimal.Zero,
	}
	if len(req.Items) == 0 {
		// Empty-cart views are valid and price to zero.
		return q, nil
	}

	keys := make([]catalog.LineKey, len(req.Items))
	for i, line := range req.Items {
		keys[i] = catalog.LineKey{ProductID: line.ProductID, VariantID: line.VariantID}
	}
	entries, err := s.Catalog.Resolve(ctx, keys)
	if err != nil {
		recordQuote("catalog_unavailable")
		return Quote{}, fmt.Errorf("resolve cart lines: %w", err)
	}

	subtotal := decimal.Zero
	for i, line := range req.Items {
		entry, found := entries[keys[i]]
		resolved := ResolvedLine{
			ProductID:         line.ProductID,
			VariantID:         line.VariantID,
			Title:             entry.Title,
			Slug:              entry.Slug,
			Image:             entry.Image,
			Quantity:          line.Quantity,
			UnitPrice:         entry.UnitPrice,
			OriginalUnitPrice: entry.OriginalUnitPrice,
			AvailableStock:    entry.AvailableStock,
		}
		resolved.LineTotal = entry.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		status := availability.Evaluate(found && entry.IsActive, entry.AvailableStock, line.Quantity)
		resolved.IsAvailable = status.Available
		resolved.Message = status.Message
		if status.Available {
			subtotal = subtotal.Add(resolved.LineTotal)
		} else {
			q.AnyUnavailable = true
		}
		q.Items = append(q.Items, resolved)
	}
	q.ItemsSubtotal = subtotal

	decision := s.resolveDiscount(ctx, req.CouponCode, subtotal)
	q.DiscountAmount = decision.Amount
	q.AppliedCouponCode = decision.CouponCode
	q.AppliedPromotionID = decision.PromotionID
	q.AppliedPromotionName = decision.PromotionName
	q.CouponRejection = decision.CouponRejection

	discounted := money.NonNegative(subtotal.Sub(decision.Amount))
	ship := shipping.Calculate(s.shippingSettings(ctx), req.City, discounted)
	q.ShippingAmount = ship.Amount
	q.ShippingFreeAboveSubtotal = ship.FreeAboveSubtotal
	q.ShippingRemainingForFree = ship.RemainingForFree
	q.ShippingIsFree = ship.IsFree
	q.ShippingETA = ship.ETA
	q.ShippingETAText = ship.ETAText

	q.TaxAmount = s.taxAmount(ctx, req, discounted)
	q.TotalAmount = money.Round(discounted.Add(q.ShippingAmount).Add(q.TaxAmount))

	recordQuote("ok")
	recordDiscountSource(decision)
	return q, nil
}

// resolveDiscount fetches the coupon and promotion snapshot and runs the
// selection policy. Lookup failures degrade: a failed coupon lookup reports
// the code as not applicable, a failed promotion listing yields no automatic
// discount. Quotes must never fail because a discount could not be fetched.
func (s *Service) resolveDiscount(ctx context.Context, code string, subtotal decimal.Decimal) discount.Decision {
	code = strings.TrimSpace(code)
	var coupon *discount.Coupon
	if code != "" {
		found, err := s.Discounts.FindCouponByCode(ctx, code)
		if err != nil {
			s.Logger.Warn().Err(err).Str("code", code).Msg("coupon lookup failed")
		} else {
			coupon = found
		}
	}
	promos, err := s.Discounts.ListActivePromotions(ctx)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("promotion listing failed")
		promos = nil
	}
	return discount.Resolve(s.now(), subtotal, coupon, code, promos)
}

func (s *Service) shippingSettings(ctx context.Context) shipping.Settings {
	settings, err := s.Shipping.GetSettings(ctx)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("shipping settings lookup failed, defaulting to zero fee")
		return shipping.Settings{DefaultFee: decimal.Zero}
	}
	return settings
}

func (s *Service) taxAmount(ctx context.Context, req Request, discounted decimal.Decimal) decimal.Decimal {
	if req.TaxAmount.IsPositive() {
		return req.TaxAmount
	}
	if s.Tax == nil {
		return decimal.Zero
	}
	tax, err := s.Tax(ctx, discounted, req.City)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("tax computation failed, defaulting to zero")
		return decimal.Zero
	}
	return money.NonNegative(tax)
}

func recordQuote(result string) {
	if obs.QuotesTotal != nil {
		obs.QuotesTotal.WithLabelValues(result).Inc()
	}
}

func recordDiscountSource(d discount.Decision) {
	if d.CouponRejection != nil && obs.CouponRejectionsTotal != nil {
		obs.CouponRejectionsTotal.WithLabelValues(string(d.CouponRejection.Reason)).Inc()
	}
	if obs.QuoteDiscountSourceTotal == nil {
		return
	}
	switch {
	case d.CouponCode != "":
		obs.QuoteDiscountSourceTotal.WithLabelValues("coupon").Inc()
	case d.PromotionID != nil:
		obs.QuoteDiscountSourceTotal.WithLabelValues("promotion").Inc()
	default:
		obs.QuoteDiscountSourceTotal.WithLabelValues("none").Inc()
	}
}
