package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bazaar-dev/storefront-api/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/storefront",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "PKR", cfg.BaseCurrency)
	require.Equal(t, 5*time.Minute, cfg.SettingsCacheTTL)
	require.Equal(t, 120, cfg.QuoteRateMax)
	require.Equal(t, 0.5, cfg.CatalogBreakerFailureRatio)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":       "postgres://localhost:5432/storefront",
		"REDIS_URL":          "redis://localhost:6379/0",
		"PORT":               "9090",
		"BASE_CURRENCY":      "usd",
		"QUOTE_RATE_WINDOW":  "30s",
		"QUOTE_RATE_MAX":     "10",
		"SETTINGS_CACHE_TTL": "90s",
	})
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "USD", cfg.BaseCurrency)
	require.Equal(t, 30*time.Second, cfg.QuoteRateWindow)
	require.Equal(t, 10, cfg.QuoteRateMax)
	require.Equal(t, 90*time.Second, cfg.SettingsCacheTTL)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.Error(t, err)
}
