package app

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", DriverMemory)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":4000", cfg.AppAddr)
	require.Equal(t, 30*time.Second, cfg.AppRequestTimeout)
	require.Equal(t, time.UTC, cfg.Location())
	require.Empty(t, cfg.RedisAddr)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins())
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "mongo")
		_, err := LoadConfig()
		require.ErrorContains(t, err, "STORE_DRIVER")
	})
	t.Run("timezone", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", DriverMemory)
		t.Setenv("APP_TIMEZONE", "Mars/Olympus")
		_, err := LoadConfig()
		require.ErrorContains(t, err, "APP_TIMEZONE")
	})
	t.Run("rate limit", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", DriverMemory)
		t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
		_, err := LoadConfig()
		require.Error(t, err)
	})
}

func TestCORSOriginsMergeFrontendURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", DriverMemory)
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test/")
	t.Setenv("FRONTEND_URL", "http://b.test")
	t.Setenv("APP_TIMEZONE", "Asia/Jakarta")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	require.Equal(t, "Asia/Jakarta", cfg.Location().String())
}

func TestLoggerFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{LogFormat: "json", LogLevel: "warn"})
	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, `"msg":"shown"`)
	require.Contains(t, out, `"k":"v"`)
}
