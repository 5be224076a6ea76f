package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	API    APIConfig
	Auth   AuthConfig
	Logger LoggerConfig
}

// APIConfig holds the storefront API endpoint configuration.
type APIConfig struct {
	BaseURL         string
	Timeout         time.Duration
	BreakerFailures int // consecutive transport failures before the breaker opens
	BreakerCooldown time.Duration
}

// AuthConfig holds the bearer token for the current session. Empty
// means anonymous browsing.
type AuthConfig struct {
	Token string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// Load loads configuration from environment variables, reading a local
// .env file first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL:         getEnv("NEXUS_API_URL", "http://localhost:8080/api"),
			Timeout:         time.Duration(getEnvAsInt("NEXUS_API_TIMEOUT", 15)) * time.Second,
			BreakerFailures: getEnvAsInt("NEXUS_BREAKER_FAILURES", 5),
			BreakerCooldown: time.Duration(getEnvAsInt("NEXUS_BREAKER_COOLDOWN", 30)) * time.Second,
		},
		Auth: AuthConfig{
			Token: getEnv("NEXUS_TOKEN", ""),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}

	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("invalid API base URL: %s", c.API.BaseURL)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive")
	}

	if c.API.BreakerFailures < 1 {
		return fmt.Errorf("breaker failure threshold must be at least 1")
	}

	if c.API.BreakerCooldown <= 0 {
		return fmt.Errorf("breaker cooldown must be positive")
	}

	return nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
