// Package config provides configuration loading and validation for the
// Louper services. It uses koanf to merge environment variables with
// optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the API server and ingest worker.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Database
	DatabaseURL string `koanf:"database_url"`

	// Redis feed cache
	RedisAddr    string        `koanf:"redis_addr"`
	FeedCacheTTL time.Duration `koanf:"feed_cache_ttl"`

	// JWT Authentication
	JWTSecret string `koanf:"jwt_secret"`

	// Engagement stream (ingest worker)
	StreamURL string `koanf:"stream_url"`

	// Recommendation scoring
	CalibrationPath string `koanf:"calibration_path"`
	ShuffleEnabled  bool   `koanf:"shuffle_enabled"`

	// Tracing
	TracingEnabled  bool   `koanf:"tracing_enabled"`
	TracingEndpoint string `koanf:"tracing_endpoint"`
}

// Configuration validation errors.
var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is required")
	ErrInvalidPort        = errors.New("PORT must be a valid integer")
	ErrInvalidCacheTTL    = errors.New("FEED_CACHE_TTL must be a valid duration")
)

// Default values for non-secret configuration.
const (
	DefaultPort           = 8080
	DefaultEnv            = "development"
	DefaultFeedCacheTTL   = 5 * time.Minute
	DefaultShuffleEnabled = true
)

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and the file cannot be loaded, an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// Load from YAML file first if provided (lower precedence)
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	// Parse port from env, collecting error if invalid
	// Try LOUPER_PORT first, then PORT for backward compatibility
	port, portErr := getEnvIntOrDefaultMulti([]string{"LOUPER_PORT", "PORT"}, k.Int("port"), DefaultPort)
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
	}

	cacheTTL, ttlErr := getEnvDurationOrDefault("FEED_CACHE_TTL", k.Duration("feed_cache_ttl"), DefaultFeedCacheTTL)
	if ttlErr != nil {
		loadErrs = append(loadErrs, ttlErr)
	}

	shuffleEnabled := getEnvBoolOrDefault("SHUFFLE_ENABLED", k, "shuffle_enabled", DefaultShuffleEnabled)
	tracingEnabled := getEnvBoolOrDefault("TRACING_ENABLED", k, "tracing_enabled", false)

	// Build config struct, with env vars taking precedence over file values
	cfg := &Config{
		Port:            port,
		Env:             getEnvOrDefaultMulti([]string{"LOUPER_ENV", "ENV", "GO_ENV"}, k.String("env"), DefaultEnv),
		DatabaseURL:     getEnvOrKoanf("DATABASE_URL", k, "database_url"),
		RedisAddr:       getEnvOrKoanf("REDIS_ADDR", k, "redis_addr"),
		FeedCacheTTL:    cacheTTL,
		JWTSecret:       getEnvOrKoanf("JWT_SECRET", k, "jwt_secret"),
		StreamURL:       getEnvOrKoanf("STREAM_URL", k, "stream_url"),
		CalibrationPath: getEnvOrKoanf("CALIBRATION_PATH", k, "calibration_path"),
		ShuffleEnabled:  shuffleEnabled,
		TracingEnabled:  tracingEnabled,
		TracingEndpoint: getEnvOrKoanf("TRACING_ENDPOINT", k, "tracing_endpoint"),
	}

	// Validate and collect errors
	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first non-empty value found, otherwise the koanf value, or default.
func getEnvOrDefaultMulti(envKeys []string, koanfVal string, defaultVal string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first valid integer value found, otherwise the koanf value, or default.
// Returns an error if any environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefaultMulti(envKeys []string, koanfVal int, defaultVal int) (int, error) {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				return 0, fmt.Errorf("%s must be a valid integer: %w", key, ErrInvalidPort)
			}
			return i, nil
		}
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvDurationOrDefault returns the environment variable as a duration if set,
// otherwise the koanf value, or default. Returns an error if the environment
// variable is set but cannot be parsed as a duration.
func getEnvDurationOrDefault(envKey string, koanfVal time.Duration, defaultVal time.Duration) (time.Duration, error) {
	if val := os.Getenv(envKey); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid duration: %w", envKey, ErrInvalidCacheTTL)
		}
		return d, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvBoolOrDefault returns the environment variable as a bool if set,
// otherwise the koanf value, or default. Unrecognized env values keep the
// previous value rather than failing the load.
func getEnvBoolOrDefault(envKey string, k *koanf.Koanf, koanfKey string, defaultVal bool) bool {
	result := defaultVal
	if k.Exists(koanfKey) {
		result = k.Bool(koanfKey)
	}
	if val := os.Getenv(envKey); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes", "on":
			result = true
		case "false", "0", "no", "off":
			result = false
		}
	}
	return result
}

// Validate checks that all required configuration values are present.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, ErrMissingDatabaseURL)
	}
	if c.JWTSecret == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}

	return errs
}

// IsProduction reports whether the service runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LogSummary returns a summary of the configuration suitable for logging.
// All secrets are masked to prevent accidental exposure.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":             fmt.Sprintf("%d", c.Port),
		"env":              c.Env,
		"database_url":     maskDatabaseURL(c.DatabaseURL),
		"redis_addr":       c.RedisAddr,
		"feed_cache_ttl":   c.FeedCacheTTL.String(),
		"jwt_secret":       maskSecret(c.JWTSecret),
		"stream_url":       c.StreamURL,
		"calibration_path": c.CalibrationPath,
		"shuffle_enabled":  fmt.Sprintf("%t", c.ShuffleEnabled),
		"tracing_enabled":  fmt.Sprintf("%t", c.TracingEnabled),
		"tracing_endpoint": c.TracingEndpoint,
	}
}

// maskSecret masks a secret value, showing only the first 4 characters followed by ****
// If the secret is shorter than 8 characters, it's fully masked.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}

// maskDatabaseURL masks the password in a database URL.
// Supports both postgres:// and postgresql:// schemes.
func maskDatabaseURL(s string) string {
	if s == "" {
		return "<not set>"
	}

	schemeEnd := strings.Index(s, "://")
	if schemeEnd == -1 {
		return maskSecret(s)
	}

	rest := s[schemeEnd+3:]
	atIndex := strings.Index(rest, "@")
	if atIndex == -1 {
		return s // No credentials in URL
	}

	colonIndex := strings.Index(rest[:atIndex], ":")
	if colonIndex == -1 {
		return s // No password (only username)
	}

	scheme := s[:schemeEnd+3]
	user := rest[:colonIndex]
	hostAndPath := rest[atIndex:]

	return scheme + user + ":****" + hostAndPath
}
