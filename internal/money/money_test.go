package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bazaar-dev/storefront-api/internal/money"
)

func TestRound(t *testing.T) {
	require.True(t, money.Round(decimal.RequireFromString("41.6662")).Equal(decimal.RequireFromString("41.67")))
	require.True(t, money.Round(decimal.RequireFromString("41.664")).Equal(decimal.RequireFromString("41.66")))
}

func TestNonNegative(t *testing.T) {
	require.True(t, money.NonNegative(decimal.RequireFromString("-3")).IsZero())
	require.True(t, money.NonNegative(decimal.RequireFromString("3")).Equal(decimal.RequireFromString("3")))
}

func TestMin(t *testing.T) {
	a := decimal.RequireFromString("10")
	b := decimal.RequireFromString("7.5")
	require.True(t, money.Min(a, b).Equal(b))
	require.True(t, money.Min(b, a).Equal(b))
}

func TestMarshalsAsBareNumber(t *testing.T) {
	out, err := json.Marshal(decimal.RequireFromString("1200.50"))
	require.NoError(t, err)
	require.Equal(t, "1200.5", string(out))
}
