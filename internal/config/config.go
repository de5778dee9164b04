package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Env  string
	Port string

	// Hosted data API
	GraphQLURL       string
	GraphQLAPIKey    string
	RequestTimeout   time.Duration
	CategoryCacheTTL time.Duration

	// Hosted auth API
	AuthURL       string
	AuthJWTSecret string

	// Sessions
	SessionTTL         time.Duration
	SessionMaxEntries  int
	CookieSecure       bool
	LoginRatePerMinute int

	// Local audit log
	AuditDBDriver  string
	AuditDBDSN     string
	MigrationsPath string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	env := getEnv("ENV", "development")
	config := &Config{
		Env:  env,
		Port: getEnv("PORT", "8080"),

		GraphQLURL:    os.Getenv("GRAPHQL_URL"),
		GraphQLAPIKey: os.Getenv("GRAPHQL_API_KEY"),

		AuthURL:       strings.TrimRight(os.Getenv("AUTH_URL"), "/"),
		AuthJWTSecret: os.Getenv("AUTH_JWT_SECRET"),

		AuditDBDriver:  strings.ToLower(getEnv("AUDIT_DB_DRIVER", "sqlite")),
		AuditDBDSN:     getEnv("AUDIT_DB_DSN", "fintrack_audit.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
	}

	var err error
	if config.RequestTimeout, err = parseDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if config.CategoryCacheTTL, err = parseDuration("CATEGORY_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if config.SessionTTL, err = parseDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if config.SessionMaxEntries, err = parseInt("SESSION_MAX_ENTRIES", 1000); err != nil {
		return nil, err
	}
	if config.LoginRatePerMinute, err = parseInt("LOGIN_RATE_PER_MINUTE", 10); err != nil {
		return nil, err
	}
	if config.CookieSecure, err = parseBool(os.Getenv("COOKIE_SECURE"), env == "production"); err != nil {
		return nil, fmt.Errorf("invalid COOKIE_SECURE value: %w", err)
	}

	appConfig = config
	return config, nil
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	if c.GraphQLURL == "" {
		return fmt.Errorf("GRAPHQL_URL is required")
	}
	if c.GraphQLAPIKey == "" {
		return fmt.Errorf("GRAPHQL_API_KEY is required")
	}
	if c.AuthURL == "" {
		return fmt.Errorf("AUTH_URL is required")
	}
	switch c.AuditDBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid AUDIT_DB_DRIVER %q: must be sqlite or postgres", c.AuditDBDriver)
	}
	return nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return d, nil
}

func parseInt(key string, defaultValue int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}

func parseBool(s string, defaultVal bool) (bool, error) {
	if s == "" {
		return defaultVal, nil
	}
	switch strings.ToLower(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("must be true, false, 1, or 0, got %q", s)
	}
}
