package catalog

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bazaar-dev/storefront-api/internal/resilience"
)

// Guarded wraps a Resolver with a circuit breaker. While the breaker is open
// every call fails fast with ErrUnavailable instead of hammering the store.
type Guarded struct {
	Next     Resolver
	Breaker  *resilience.Breaker
	Duration prometheus.Observer
}

// Resolve implements Resolver.
func (g Guarded) Resolve(ctx context.Context, keys []LineKey) (map[LineKey]Entry, error) {
	if g.Breaker != nil && !g.Breaker.Allow(ctx) {
		return nil, ErrUnavailable
	}
	start := time.Now()
	out, err := g.Next.Resolve(ctx, keys)
	if g.Duration != nil {
		g.Duration.Observe(float64(time.Since(start)) / float64(time.Millisecond))
	}
	if g.Breaker != nil {
		g.Breaker.Report(ctx, err == nil)
	}
	return out, err
}
