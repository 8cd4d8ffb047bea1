package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clinic/pkg/clinicsdk"
	"github.com/aussiebroadwan/clinic/pkg/session"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".clinicctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, clinicsdk.DefaultBaseURL, cfg.API.BaseURL)
	require.Equal(t, clinicsdk.DefaultTimeout, cfg.API.Timeout)
	require.Zero(t, cfg.API.RateLimit)
	require.Equal(t, DriverSQLite, cfg.Session.Driver)
	require.Equal(t, session.DefaultNamespace, cfg.Session.Namespace)
	require.NotEmpty(t, cfg.Session.Path)
	require.Equal(t, "warn", cfg.Logging.Level)
	require.True(t, cfg.Output.Colors)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://clinic.example.com/api
  timeout: 3s
  rate_limit: 5
session:
  driver: memory
  namespace: test
logging:
  level: debug
  format: json
output:
  colors: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "https://clinic.example.com/api", cfg.API.BaseURL)
	require.Equal(t, 3*time.Second, cfg.API.Timeout)
	require.InDelta(t, 5.0, cfg.API.RateLimit, 0.001)
	require.Equal(t, DriverMemory, cfg.Session.Driver)
	require.Equal(t, "test", cfg.Session.Namespace)
	require.Equal(t, "json", cfg.Logging.Format)
	require.False(t, cfg.Output.Colors)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "api:\n  base_url: http://file.example.com/api\n")
	t.Setenv("CLINIC_API_BASE_URL", "http://env.example.com/api")
	t.Setenv("CLINIC_SESSION_NAMESPACE", "fromenv")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://env.example.com/api", cfg.API.BaseURL)
	require.Equal(t, "fromenv", cfg.Session.Namespace)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad url":      "api:\n  base_url: ftp://nope\n",
		"bad driver":   "session:\n  driver: redis\n",
		"bad level":    "logging:\n  level: loud\n",
		"bad format":   "logging:\n  format: xml\n",
		"bad timeout":  "api:\n  timeout: -1s\n",
		"negative rps": "api:\n  rate_limit: -2\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
		})
	}
}
