package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/priceworks/article-service/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"STORAGE_DRIVER": "memory",
		"DATABASE_URL":   "",
		"PORT":           "",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "memory", cfg.StorageDriver)
	require.Equal(t, time.Minute, cfg.CacheTTL)
	require.Equal(t, 120, cfg.RateLimitMax)
	require.True(t, cfg.MigrationsEnabled)
}

func TestLoadRequiresDatabaseURLForPostgres(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"STORAGE_DRIVER": "postgres",
		"DATABASE_URL":   "",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"STORAGE_DRIVER": "cassandra",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported STORAGE_DRIVER")
}

func TestLoadParsesOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"STORAGE_DRIVER":       "postgres",
		"DATABASE_URL":         "postgres://localhost/articles",
		"PORT":                 "9090",
		"CACHE_TTL":            "5m",
		"RATE_LIMIT_MAX":       "10",
		"RATE_LIMIT_WINDOW":    "30s",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, 5*time.Minute, cfg.CacheTTL)
	require.Equal(t, 10, cfg.RateLimitMax)
	require.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}
