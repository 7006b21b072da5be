package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bazaar-dev/storefront-api/internal/catalog"
	"github.com/bazaar-dev/storefront-api/internal/resilience"
)

type flakyResolver struct {
	err   error
	calls int
}

func (f *flakyResolver) Resolve(_ context.Context, keys []catalog.LineKey) (map[catalog.LineKey]catalog.Entry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return map[catalog.LineKey]catalog.Entry{}, nil
}

func TestGuardedFailsFastWhenOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inner := &flakyResolver{err: errors.Join(catalog.ErrUnavailable, errors.New("conn refused"))}
	guarded := catalog.Guarded{
		Next:    inner,
		Breaker: resilience.NewBreaker(2, 0.5, time.Minute),
	}

	for i := 0; i < 2; i++ {
		_, err := guarded.Resolve(ctx, nil)
		require.ErrorIs(t, err, catalog.ErrUnavailable)
	}
	// Breaker opened; the inner resolver must not be called again.
	calls := inner.calls
	_, err := guarded.Resolve(ctx, nil)
	require.ErrorIs(t, err, catalog.ErrUnavailable)
	require.Equal(t, calls, inner.calls)
}

func TestGuardedPassesThroughOnSuccess(t *testing.T) {
	t.Parallel()

	inner := &flakyResolver{}
	guarded := catalog.Guarded{Next: inner, Breaker: resilience.NewBreaker(5, 0.5, time.Minute)}
	out, err := guarded.Resolve(context.Background(), []catalog.LineKey{{ProductID: "p1"}})
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Equal(t, 1, inner.calls)
}
