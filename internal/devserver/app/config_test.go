package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "LOG_FORMAT", "DEVSERVER_JWT_SECRET",
		"DEVSERVER_ACCESS_TTL", "DEVSERVER_SEED", "SHUTDOWN_GRACE_PERIOD",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, 8000, cfg.Port)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "clinic-devserver", cfg.Issuer)
	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.False(t, cfg.Seed)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("DEVSERVER_ACCESS_TTL", "90s")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "2")
	t.Setenv("DEVSERVER_SEED", "true")
	t.Setenv("LOG_FORMAT", "text")

	cfg := LoadConfig()
	require.Equal(t, 9001, cfg.Port)
	require.Equal(t, 90*time.Second, cfg.AccessTTL)
	require.Equal(t, 2*time.Minute, cfg.ShutdownGracePeriod)
	require.True(t, cfg.Seed)
	require.Equal(t, "text", cfg.LogFormat)
}

func TestGetEnvFallsBackOnGarbage(t *testing.T) {
	t.Setenv("PORT", "eighty")
	t.Setenv("DEVSERVER_SEED", "maybe")
	t.Setenv("DEVSERVER_ACCESS_TTL", "soon")

	require.Equal(t, 8000, getEnvIntOrDefault("PORT", 8000))
	require.True(t, getEnvBoolOrDefault("DEVSERVER_SEED", true))
	require.Equal(t, time.Minute, getEnvDurationOrDefault("DEVSERVER_ACCESS_TTL", time.Minute))
}
