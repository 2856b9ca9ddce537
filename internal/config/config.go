// Package config provides centralized configuration management.
// It loads configuration from CLI flags and environment variables, validates
// required fields, and provides sensible defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/noteful/noteful/internal/db"
	"github.com/noteful/noteful/internal/ratelimit"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	ListenAddr string

	// Database
	DatabasePath string // Path of the SQLite file
	DatabaseKey  string // Optional, 64 hex characters (32 bytes); enables encryption

	// Auth
	JWTSecret string        // Signing secret for bearer tokens
	JWTExpiry time.Duration // How long issued tokens remain valid

	// Rate limiting
	RateLimitConfig ratelimit.Config

	// Dev mode exposes internal error details in responses (--dev)
	DevMode bool
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// ParseFlags parses CLI flags and returns them. Call before LoadConfig.
func ParseFlags() (devMode bool, addr string) {
	flag.BoolVar(&devMode, "dev", false, "Development mode (expose error details in responses)")
	flag.StringVar(&addr, "addr", "", "Listen address (default :8080, overrides LISTEN_ADDR env var)")
	flag.Parse()
	return devMode, addr
}

// LoadConfig loads configuration from environment variables and CLI flag
// values. The addr flag overrides the LISTEN_ADDR env var if non-empty.
func LoadConfig(devMode bool, addr string) (*Config, error) {
	cfg := &Config{}

	cfg.DevMode = devMode

	cfg.ListenAddr = getEnvOrDefault("LISTEN_ADDR", ":8080")
	if addr != "" {
		cfg.ListenAddr = addr
	}

	cfg.DatabasePath = getEnvOrDefault("DATABASE_PATH", db.DefaultDatabasePath)
	cfg.DatabaseKey = strings.TrimSpace(os.Getenv("DATABASE_KEY"))

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.JWTExpiry = parseDurationOrDefault("JWT_EXPIRY", 7*24*time.Hour)

	cfg.RateLimitConfig = ratelimit.Config{
		RPS:             parseFloat64OrDefault("RATE_LIMIT_RPS", ratelimit.DefaultConfig.RPS),
		Burst:           parseIntOrDefault("RATE_LIMIT_BURST", ratelimit.DefaultConfig.Burst),
		CleanupInterval: parseDurationOrDefault("RATE_LIMIT_CLEANUP_INTERVAL", ratelimit.DefaultConfig.CleanupInterval),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var issues []string

	if c.JWTSecret == "" {
		issues = append(issues, "JWT_SECRET is required (generate with: openssl rand -hex 32)")
	}

	if c.DatabaseKey != "" && !isHexKey(c.DatabaseKey) {
		issues = append(issues, "DATABASE_KEY must be 64 hex characters (32 bytes)")
	}

	if c.JWTExpiry <= 0 {
		issues = append(issues, "JWT_EXPIRY must be positive")
	}

	if c.RateLimitConfig.RPS <= 0 {
		issues = append(issues, "RATE_LIMIT_RPS must be positive")
	}
	if c.RateLimitConfig.Burst <= 0 {
		issues = append(issues, "RATE_LIMIT_BURST must be positive")
	}

	if len(issues) > 0 {
		return &ValidationError{Errors: issues}
	}

	return nil
}

// PrintStartupSummary prints a human-readable summary of the configuration to stderr.
func (c *Config) PrintStartupSummary() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "noteful server starting...")

	if c.DevMode {
		fmt.Fprintln(os.Stderr, "  Mode:     Development (--dev)")
	} else {
		fmt.Fprintln(os.Stderr, "  Mode:     Production")
	}

	if c.DatabaseKey != "" {
		fmt.Fprintf(os.Stderr, "  Database: %s (encrypted)\n", c.DatabasePath)
	} else {
		fmt.Fprintf(os.Stderr, "  Database: %s\n", c.DatabasePath)
	}

	fmt.Fprintf(os.Stderr, "  Tokens:   expire after %s\n", c.JWTExpiry)
	fmt.Fprintf(os.Stderr, "  Listen:   %s\n", c.ListenAddr)
	fmt.Fprintln(os.Stderr, "")
}

func isHexKey(s string) bool {
	if len(s) != 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') && (ch < 'A' || ch > 'F') {
			return false
		}
	}
	return true
}

// Helper functions for parsing environment variables

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// MustLoadConfig loads configuration and panics if validation fails.
// Use this in main() when you want the application to fail fast on bad config.
func MustLoadConfig(devMode bool, addr string) *Config {
	cfg, err := LoadConfig(devMode, addr)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			panic(fmt.Sprintf("Configuration validation failed:\n  - %s", strings.Join(validationErr.Errors, "\n  - ")))
		}
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
	return cfg
}
