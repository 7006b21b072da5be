package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bazaar-dev/storefront-api/internal/cache"
)

// Store resolves catalog entries from Postgres with an optional Redis
// read-through cache. All keys of a quote resolve in a single query.
type Store struct {
	Pool  *pgxpool.Pool
	Cache *cache.Cache
}

const resolveSQL = `
SELECT req.product_id, req.variant_id,
       p.title, p.slug, COALESCE(p.image, ''),
       COALESCE(v.price, p.price),
       p.compare_at_price,
       COALESCE(v.stock, p.stock),
       p.is_active
FROM unnest($1::text[], $2::text[]) AS req(product_id, variant_id)
JOIN products p ON p.id::text = req.product_id
LEFT JOIN product_variants v
  ON v.id::text = req.variant_id AND v.product_id = p.id`

// Resolve returns entries for every key that exists. Backend failures map to
// ErrUnavailable so callers can fail the quote retriably.
func (s *Store) Resolve(ctx context.Context, keys []LineKey) (map[LineKey]Entry, error) {
	if s == nil || s.Pool == nil {
		return nil, errors.New("catalog store not configured")
	}
	out := make(map[LineKey]Entry, len(keys))

	missing := make([]LineKey, 0, len(keys))
	for _, key := range keys {
		var entry Entry
		if ok, err := s.Cache.GetJSON(ctx, cacheKey(key), &entry); err == nil && ok {
			out[key] = entry
			continue
		}
		missing = append(missing, key)
	}
	if len(missing) == 0 {
		return out, nil
	}

	productIDs := make([]string, len(missing))
	variantIDs := make([]string, len(missing))
	for i, key := range missing {
		productIDs[i] = key.ProductID
		variantIDs[i] = key.VariantID
	}
	rows, err := s.Pool.Query(ctx, resolveSQL, productIDs, variantIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog lines: %w", errors.Join(ErrUnavailable, err))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key      LineKey
			entry    Entry
			original decimal.NullDecimal
		)
		if err := rows.Scan(
			&key.ProductID, &key.VariantID,
			&entry.Title, &entry.Slug, &entry.Image,
			&entry.UnitPrice, &original, &entry.AvailableStock, &entry.IsActive,
		); err != nil {
			return nil, fmt.Errorf("scan catalog line: %w", errors.Join(ErrUnavailable, err))
		}
		if original.Valid {
			entry.OriginalUnitPrice = &original.Decimal
		}
		out[key] = entry
		_ = s.Cache.SetJSON(ctx, cacheKey(key), entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve catalog lines: %w", errors.Join(ErrUnavailable, err))
	}
	return out, nil
}

func cacheKey(key LineKey) string {
	return "catalog:line:" + key.ProductID + ":" + key.VariantID
}
