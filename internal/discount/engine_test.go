package discount

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func activePromo(name string, kind Kind, value string, priority int) Promotion {
	return Promotion{
		ID:       uuid.New(),
		Name:     name,
		Kind:     kind,
		Value:    dec(value),
		Priority: priority,
		IsActive: true,
	}
}

func TestAmountPercentRounds(t *testing.T) {
	t.Parallel()

	got := Amount(KindPercent, dec("10"), nil, dec("1000"))
	require.True(t, dec("100").Equal(got), "got %s", got)

	// 12.5% of 333.33 = 41.66625 -> 41.67
	got = Amount(KindPercent, dec("12.5"), nil, dec("333.33"))
	require.True(t, dec("41.67").Equal(got), "got %s", got)
}

func TestAmountFixedClampedToSubtotal(t *testing.T) {
	t.Parallel()

	got := Amount(KindFixed, dec("500"), nil, dec("300"))
	require.True(t, dec("300").Equal(got), "got %s", got)
}

func TestAmountRespectsCap(t *testing.T) {
	t.Parallel()

	got := Amount(KindPercent, dec("50"), decPtr("120"), dec("1000"))
	require.True(t, dec("120").Equal(got), "got %s", got)
}

func TestAmountZeroSubtotal(t *testing.T) {
	t.Parallel()

	require.True(t, Amount(KindPercent, dec("10"), nil, decimal.Zero).IsZero())
	require.True(t, Amount(KindFixed, dec("10"), nil, dec("-5")).IsZero())
}

func TestResolveCouponPrecedesPromotions(t *testing.T) {
	t.Parallel()

	coupon := &Coupon{Code: "SAVE10", Kind: KindPercent, Value: dec("10"), MinOrderAmount: dec("500"), IsActive: true}
	promo := activePromo("big-sale", KindFixed, "150", 5)

	d := Resolve(now, dec("1000"), coupon, "SAVE10", []Promotion{promo})
	require.True(t, dec("100").Equal(d.Amount), "got %s", d.Amount)
	require.Equal(t, "SAVE10", d.CouponCode)
	require.Nil(t, d.PromotionID)
	require.Nil(t, d.CouponRejection)
}

func TestResolvePriorityTieBreaksOnAmount(t *testing.T) {
	t.Parallel()

	small := activePromo("small", KindFixed, "80", 5)
	large := activePromo("large", KindFixed, "120", 5)

	d := Resolve(now, dec("1000"), nil, "", []Promotion{small, large})
	require.True(t, dec("120").Equal(d.Amount), "got %s", d.Amount)
	require.NotNil(t, d.PromotionID)
	require.Equal(t, large.ID, *d.PromotionID)
	require.Equal(t, "large", d.PromotionName)
	require.Empty(t, d.CouponCode)
}

func TestResolveHigherPriorityWinsOverLargerDiscount(t *testing.T) {
	t.Parallel()

	big := activePromo("big", KindFixed, "200", 1)
	prioritized := activePromo("prioritized", KindFixed, "50", 9)

	d := Resolve(now, dec("1000"), nil, "", []Promotion{big, prioritized})
	require.Equal(t, prioritized.ID, *d.PromotionID)
	require.True(t, dec("50").Equal(d.Amount))
}

func TestResolveEarliestStartBreaksFullTie(t *testing.T) {
	t.Parallel()

	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	older := activePromo("older", KindFixed, "100", 3)
	older.StartsAt = &early
	newer := activePromo("newer", KindFixed, "100", 3)
	newer.StartsAt = &late

	d := Resolve(now, dec("1000"), nil, "", []Promotion{newer, older})
	require.Equal(t, older.ID, *d.PromotionID)
}

func TestResolveIneligibleCouponFallsBackToPromotion(t *testing.T) {
	t.Parallel()

	expired := now.Add(-time.Hour)
	coupon := &Coupon{Code: "OLD", Kind: KindFixed, Value: dec("200"), IsActive: true, ExpiresAt: &expired}
	promo := activePromo("fallback", KindFixed, "150", 5)

	d := Resolve(now, dec("1000"), coupon, "OLD", []Promotion{promo})
	require.True(t, dec("150").Equal(d.Amount))
	require.Empty(t, d.CouponCode)
	require.Equal(t, promo.ID, *d.PromotionID)
	require.NotNil(t, d.CouponRejection)
	require.Equal(t, "OLD", d.CouponRejection.Code)
	require.Equal(t, ReasonExpired, d.CouponRejection.Reason)
}

func TestResolveRejectionReasons(t *testing.T) {
	t.Parallel()

	limit := int32(5)
	cases := []struct {
		name   string
		coupon *Coupon
		want   RejectionReason
	}{
		{"inactive", &Coupon{Code: "X", IsActive: false}, ReasonInactive},
		{"unknown code", nil, ReasonInactive},
		{"below minimum", &Coupon{Code: "X", IsActive: true, MinOrderAmount: dec("5000")}, ReasonBelowMinimum},
		{"usage exhausted", &Coupon{Code: "X", IsActive: true, UsageLimit: &limit, UsedCount: 5}, ReasonUsageLimitReached},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Resolve(now, dec("1000"), tc.coupon, "X", nil)
			require.NotNil(t, d.CouponRejection)
			require.Equal(t, tc.want, d.CouponRejection.Reason)
			require.True(t, d.Amount.IsZero())
			require.Nil(t, d.PromotionID)
		})
	}
}

func TestResolveNothingEligible(t *testing.T) {
	t.Parallel()

	future := now.Add(time.Hour)
	pending := activePromo("pending", KindFixed, "100", 5)
	pending.StartsAt = &future

	d := Resolve(now, dec("1000"), nil, "", []Promotion{pending})
	require.True(t, d.Amount.IsZero())
	require.Nil(t, d.PromotionID)
	require.Empty(t, d.CouponCode)
}

func TestResolveNeverSetsBothIdentifiers(t *testing.T) {
	t.Parallel()

	coupon := &Coupon{Code: "BOTH", Kind: KindFixed, Value: dec("10"), IsActive: true}
	promo := activePromo("promo", KindFixed, "500", 10)

	d := Resolve(now, dec("1000"), coupon, "BOTH", []Promotion{promo})
	require.Equal(t, "BOTH", d.CouponCode)
	require.Nil(t, d.PromotionID)
}

func TestPromotionEligibilityWindow(t *testing.T) {
	t.Parallel()

	started := now.Add(-time.Hour)
	ends := now.Add(time.Hour)
	p := Promotion{IsActive: true, StartsAt: &started, ExpiresAt: &ends}
	require.NoError(t, p.Eligible(now, dec("100")))

	require.ErrorIs(t, Promotion{IsActive: false}.Eligible(now, dec("100")), ErrInactive)

	future := now.Add(time.Minute)
	require.ErrorIs(t, Promotion{IsActive: true, StartsAt: &future}.Eligible(now, dec("100")), ErrNotStarted)

	past := now.Add(-time.Minute)
	require.ErrorIs(t, Promotion{IsActive: true, ExpiresAt: &past}.Eligible(now, dec("100")), ErrExpired)

	require.ErrorIs(t, Promotion{IsActive: true, MinOrderAmount: dec("500")}.Eligible(now, dec("100")), ErrBelowMinimum)
}
