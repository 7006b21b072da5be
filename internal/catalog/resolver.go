// Package catalog resolves authoritative prices and stock for cart lines.
// The quote engine consumes it through the Resolver contract; pricing is
// never guessed when the backing store is unreachable.
package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrUnavailable signals the catalog could not be reached. Quote requests
// fail retriably instead of pricing from stale data.
var ErrUnavailable = errors.New("catalog unavailable")

// LineKey identifies a product/variant pair in a cart request.
type LineKey struct {
	ProductID string
	VariantID string
}

// Entry is the authoritative catalog state for one line key.
type Entry struct {
	Title             string
	Slug              string
	Image             string
	UnitPrice         decimal.Decimal
	OriginalUnitPrice *decimal.Decimal
	AvailableStock    int64
	IsActive          bool
}

// Resolver looks up catalog entries for a batch of line keys in one call.
// Keys that cannot be found are absent from the result map; callers treat
// them as unavailable lines.
type Resolver interface {
	Resolve(ctx context.Context, keys []LineKey) (map[LineKey]Entry, error)
}
