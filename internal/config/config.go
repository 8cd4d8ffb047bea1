// Package config provides Viper-based configuration management for clinicctl
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aussiebroadwan/clinic/pkg/clinicsdk"
	"github.com/aussiebroadwan/clinic/pkg/session"
)

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config represents the complete clinicctl configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// APIConfig points the client at the clinic REST API
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`

	// RateLimit caps outbound requests per second; 0 disables it.
	RateLimit float64 `mapstructure:"rate_limit"`
}

// SessionConfig selects where the token pair and user are kept
type SessionConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

// Load reads configuration from file, .env and environment variables
func Load(cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Search paths for .clinicctl.yaml
		v.SetConfigName(".clinicctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/clinicctl")
	}

	// CLINIC_API_BASE_URL overrides api.base_url, and so on
	v.SetEnvPrefix("CLINIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Session.Path == "" {
		cfg.Session.Path = DefaultSessionPath()
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", clinicsdk.DefaultBaseURL)
	v.SetDefault("api.timeout", clinicsdk.DefaultTimeout)
	v.SetDefault("api.rate_limit", 0)

	v.SetDefault("session.driver", DriverSQLite)
	v.SetDefault("session.path", "")
	v.SetDefault("session.namespace", session.DefaultNamespace)

	// The CLI's own output goes to stdout; logs stay quiet unless asked for
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")

	v.SetDefault("output.colors", true)
}

// DefaultSessionPath is $HOME/.config/clinicctl/session.db, or a file in the
// working directory when there is no home.
func DefaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "clinicctl-session.db"
	}
	return filepath.Join(home, ".config", "clinicctl", "session.db")
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api.base_url: %q (must be an http or https URL)", cfg.API.BaseURL)
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("invalid api.timeout: %s (must be positive)", cfg.API.Timeout)
	}

	if cfg.API.RateLimit < 0 {
		return fmt.Errorf("invalid api.rate_limit: %v (must not be negative)", cfg.API.RateLimit)
	}

	switch cfg.Session.Driver {
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("invalid session.driver: %s (must be sqlite or memory)", cfg.Session.Driver)
	}

	if strings.TrimSpace(cfg.Session.Namespace) == "" {
		return errors.New("session.namespace must not be empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"console": true, "text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be console, text, or json)", cfg.Logging.Format)
	}

	return nil
}
