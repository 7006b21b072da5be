package discount

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Store reads coupons and promotions from Postgres. It satisfies Source.
type Store struct {
	Pool *pgxpool.Pool
}

const findCouponSQL = `
SELECT code, kind, value, min_order_amount, max_discount_amount,
       expires_at, usage_limit, used_count, is_active
FROM coupons
WHERE lower(code) = lower($1)`

// FindCouponByCode looks a coupon up case-insensitively. A missing code is
// not an error; it returns (nil, nil).
func (s *Store) FindCouponByCode(ctx context.Context, code string) (*Coupon, error) {
	if s == nil || s.Pool == nil {
		return nil, errors.New("discount store not configured")
	}
	var (
		c         Coupon
		kind      string
		maxAmount decimal.NullDecimal
		expiresAt *time.Time
		limit     *int32
	)
	err := s.Pool.QueryRow(ctx, findCouponSQL, code).Scan(
		&c.Code, &kind, &c.Value, &c.MinOrderAmount, &maxAmount,
		&expiresAt, &limit, &c.UsedCount, &c.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	c.Kind = Kind(kind)
	if maxAmount.Valid {
		c.MaxDiscountAmount = &maxAmount.Decimal
	}
	c.ExpiresAt = expiresAt
	c.UsageLimit = limit
	return &c, nil
}

const listPromotionsSQL = `
SELECT id, name, kind, value, min_order_amount, max_discount_amount,
       priority, starts_at, expires_at, is_active
FROM promotions
WHERE is_active
ORDER BY priority DESC, starts_at ASC NULLS FIRST, id`

// ListActivePromotions returns the active promotion snapshot in a stable order.
func (s *Store) ListActivePromotions(ctx context.Context) ([]Promotion, error) {
	if s == nil || s.Pool == nil {
		return nil, errors.New("discount store not configured")
	}
	rows, err := s.Pool.Query(ctx, listPromotionsSQL)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	var promos []Promotion
	for rows.Next() {
		var (
			p         Promotion
			id        uuid.UUID
			kind      string
			maxAmount decimal.NullDecimal
			startsAt  *time.Time
			expiresAt *time.Time
		)
		if err := rows.Scan(
			&id, &p.Name, &kind, &p.Value, &p.MinOrderAmount, &maxAmount,
			&p.Priority, &startsAt, &expiresAt, &p.IsActive,
		); err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		p.ID = id
		p.Kind = Kind(kind)
		if maxAmount.Valid {
			p.MaxDiscountAmount = &maxAmount.Decimal
		}
		p.StartsAt = startsAt
		p.ExpiresAt = expiresAt
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	return promos, nil
}
