// Package discount selects the single best applicable discount for a cart
// from an optional user-supplied coupon and the set of active promotions.
package discount

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind distinguishes percentage discounts from fixed amounts.
type Kind string

const (
	// KindPercent discounts a percentage of the eligible subtotal.
	KindPercent Kind = "percent"
	// KindFixed discounts a fixed base-currency amount.
	KindFixed Kind = "fixed"
)

var (
	// ErrInactive is returned when the coupon or promotion is disabled.
	ErrInactive = errors.New("discount not active")
	// ErrNotStarted is returned when the promotion window has not opened yet.
	ErrNotStarted = errors.New("discount not started")
	// ErrExpired is returned when the validity window has closed.
	ErrExpired = errors.New("discount expired")
	// ErrBelowMinimum indicates the subtotal did not meet the minimum order amount.
	ErrBelowMinimum = errors.New("minimum order amount not met")
	// ErrUsageLimitReached indicates the coupon exhausted its usage quota.
	ErrUsageLimitReached = errors.New("usage limit reached")
)

// Coupon is a user-entered discount code with usage accounting.
type Coupon struct {
	Code              string
	Kind              Kind
	Value             decimal.Decimal
	MinOrderAmount    decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	ExpiresAt         *time.Time
	UsageLimit        *int32
	UsedCount         int32
	IsActive          bool
}

// Eligible reports why the coupon cannot be applied, or nil when it can.
func (c Coupon) Eligible(now time.Time, subtotal decimal.Decimal) error {
	if !c.IsActive {
		return ErrInactive
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return ErrExpired
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return ErrUsageLimitReached
	}
	if subtotal.LessThan(c.MinOrderAmount) {
		return ErrBelowMinimum
	}
	return nil
}

// Promotion is an automatic, code-less discount rule. Priority resolves
// overlaps between simultaneously eligible promotions.
type Promotion struct {
	ID                uuid.UUID
	Name              string
	Kind              Kind
	Value             decimal.Decimal
	MinOrderAmount    decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	Priority          int
	StartsAt          *time.Time
	ExpiresAt         *time.Time
	IsActive          bool
}

// Eligible reports why the promotion cannot be applied, or nil when it can.
func (p Promotion) Eligible(now time.Time, subtotal decimal.Decimal) error {
	if !p.IsActive {
		return ErrInactive
	}
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return ErrNotStarted
	}
	if p.ExpiresAt != nil && now.After(*p.ExpiresAt) {
		return ErrExpired
	}
	if subtotal.LessThan(p.MinOrderAmount) {
		return ErrBelowMinimum
	}
	return nil
}

// Source provides the coupon and promotion snapshot for a quote request.
// FindCouponByCode returns (nil, nil) when no coupon carries the code.
type Source interface {
	FindCouponByCode(ctx context.Context, code string) (*Coupon, error)
	ListActivePromotions(ctx context.Context) ([]Promotion, error)
}
