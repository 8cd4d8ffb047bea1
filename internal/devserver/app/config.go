package app

import (
	"io"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer              string        // Issuer claim for access tokens (default: clinic-devserver)
	JWTSecret           string        // HS256 secret, at least 32 bytes; generated per process when empty
	AccessTTL           time.Duration // Access token lifetime (default: 15m)
	RefreshTTL          time.Duration // Refresh token lifetime (default: 7 days)
	Pepper              string        // Appended to passwords before hashing
	AdminEmail          string        // Seeded admin account (default: admin@clinic.local)
	AdminPassword       string        // Generated and logged when empty
	Seed                bool          // Load sample patients, doctors and mappings
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	LogOutput           io.Writer     // Log destination (default: stdout)
	Port                int           // HTTP server port (default: 8000)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:              getEnvOrDefault("DEVSERVER_ISSUER", "clinic-devserver"),
		JWTSecret:           os.Getenv("DEVSERVER_JWT_SECRET"),
		AccessTTL:           getEnvDurationOrDefault("DEVSERVER_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:          getEnvDurationOrDefault("DEVSERVER_REFRESH_TTL", 7*24*time.Hour),
		Pepper:              os.Getenv("DEVSERVER_PEPPER"),
		AdminEmail:          getEnvOrDefault("DEVSERVER_ADMIN_EMAIL", "admin@clinic.local"),
		AdminPassword:       os.Getenv("DEVSERVER_ADMIN_PASSWORD"),
		Seed:                getEnvBoolOrDefault("DEVSERVER_SEED", false),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8000),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
