package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bazaar-dev/storefront-api/internal/cache"
)

// Source provides the shipping settings snapshot for a quote request.
type Source interface {
	GetSettings(ctx context.Context) (Settings, error)
}

const settingsCacheKey = "shipping:settings"

// Store reads the store-wide shipping settings row from Postgres, with an
// optional Redis read-through cache. Missing configuration degrades to
// zero-fee defaults with a warning rather than failing the quote.
type Store struct {
	Pool   *pgxpool.Pool
	Cache  *cache.Cache
	Logger zerolog.Logger
}

const getSettingsSQL = `
SELECT default_fee, free_above_subtotal, eta_min_days, eta_max_days, city_rules
FROM shipping_settings
ORDER BY updated_at DESC
LIMIT 1`

// GetSettings returns the current shipping configuration.
func (s *Store) GetSettings(ctx context.Context) (Settings, error) {
	if s == nil || s.Pool == nil {
		return Settings{}, errors.New("shipping store not configured")
	}
	var cached Settings
	if ok, err := s.Cache.GetJSON(ctx, settingsCacheKey, &cached); err == nil && ok {
		return cached, nil
	}

	var (
		settings  Settings
		freeAbove decimal.NullDecimal
		rulesJSON []byte
	)
	err := s.Pool.QueryRow(ctx, getSettingsSQL).Scan(
		&settings.DefaultFee, &freeAbove,
		&settings.ETADefault.MinDays, &settings.ETADefault.MaxDays,
		&rulesJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.Logger.Warn().Msg("shipping settings missing, defaulting to zero fee")
			return Settings{DefaultFee: decimal.Zero}, nil
		}
		return Settings{}, fmt.Errorf("get shipping settings: %w", err)
	}
	if freeAbove.Valid {
		settings.FreeAboveSubtotal = &freeAbove.Decimal
	}
	if len(rulesJSON) > 0 {
		if err := json.Unmarshal(rulesJSON, &settings.CityRules); err != nil {
			return Settings{}, fmt.Errorf("decode city rules: %w", err)
		}
	}
	if err := s.Cache.SetJSON(ctx, settingsCacheKey, settings); err != nil {
		s.Logger.Warn().Err(err).Msg("cache shipping settings")
	}
	return settings, nil
}
