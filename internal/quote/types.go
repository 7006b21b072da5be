// Package quote composes catalog, availability, discount and shipping into a
// single point-in-time pricing breakdown for a cart.
package quote

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bazaar-dev/storefront-api/internal/discount"
	"github.com/bazaar-dev/storefront-api/internal/shipping"
)

// LineRequest is one requested cart line.
type LineRequest struct {
	ProductID string `json:"productId" validate:"required"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// Request carries everything needed to price a cart. An empty item list is
// valid and yields a zero-valued quote. TaxAmount is an opaque external
// input; DisplayCurrency and ExchangeRate only affect the display block.
type Request struct {
	Items           []LineRequest   `json:"items" validate:"dive"`
	CouponCode      string          `json:"couponCode"`
	City            string          `json:"city"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	DisplayCurrency string          `json:"displayCurrency"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
}

// ResolvedLine is a priced, availability-annotated cart line. Unavailable
// lines stay itemized for display but contribute nothing to the subtotal.
type ResolvedLine struct {
	ProductID         string           `json:"productId"`
	VariantID         string           `json:"variantId,omitempty"`
	Title             string           `json:"title"`
	Slug              string           `json:"slug"`
	Image             string           `json:"image,omitempty"`
	Quantity          int              `json:"quantity"`
	UnitPrice         decimal.Decimal  `json:"unitPrice"`
	OriginalUnitPrice *decimal.Decimal `json:"originalUnitPrice,omitempty"`
	LineTotal         decimal.Decimal  `json:"lineTotal"`
	AvailableStock    int64            `json:"availableStock"`
	IsAvailable       bool             `json:"isAvailable"`
	Message           string           `json:"message,omitempty"`
}

// Quote is the complete computed pricing breakdown, in base currency.
// Invariant: TotalAmount = max(0, ItemsSubtotal-DiscountAmount) +
// ShippingAmount + TaxAmount, never negative.
type Quote struct {
	Items                     []ResolvedLine      `json:"items"`
	ItemsSubtotal             decimal.Decimal     `json:"itemsSubtotal"`
	DiscountAmount            decimal.Decimal     `json:"discountAmount"`
	AppliedCouponCode         string              `json:"appliedCouponCode,omitempty"`
	AppliedPromotionID        *uuid.UUID          `json:"appliedPromotionId,omitempty"`
	AppliedPromotionName      string              `json:"appliedPromotionName,omitempty"`
	CouponRejection           *discount.Rejection `json:"couponRejection,omitempty"`
	ShippingAmount            decimal.Decimal     `json:"shippingAmount"`
	ShippingFreeAboveSubtotal *decimal.Decimal    `json:"shippingFreeAboveSubtotal,omitempty"`
	ShippingRemainingForFree  *decimal.Decimal    `json:"shippingRemainingForFree,omitempty"`
	ShippingIsFree            bool                `json:"shippingIsFree"`
	ShippingETA               shipping.ETA        `json:"shippingEta"`
	ShippingETAText           string              `json:"shippingEtaText,omitempty"`
	TaxAmount                 decimal.Decimal     `json:"taxAmount"`
	TotalAmount               decimal.Decimal     `json:"totalAmount"`
	AnyUnavailable            bool                `json:"anyUnavailable"`
	Display                   *DisplayTotals      `json:"display,omitempty"`
}

// DisplayTotals mirrors the quote's monetary fields converted to a display
// currency. Purely presentational; base amounts are authoritative.
type DisplayTotals struct {
	Currency       string          `json:"currency"`
	ItemsSubtotal  decimal.Decimal `json:"itemsSubtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	ShippingAmount decimal.Decimal `json:"shippingAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}
