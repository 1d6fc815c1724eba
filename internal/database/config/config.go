// Package config loads database connection settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/brightclass/admin-api/pkg/retry"
)

// Config holds database connection settings.
type Config struct {
	// Driver selects the database driver: "postgres" or "sqlite".
	Driver   string
	Host     string
	User     string
	Password string
	DBName   string
	Port     string
	SSLMode  string
	TimeZone string
	// Path is the sqlite database file (sqlite driver only).
	Path string
}

// GetEnv reads an environment variable, falling back when unset or empty.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// BuildDSN renders the PostgreSQL connection string.
func BuildDSN(cfg Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode, cfg.TimeZone)
}

// LoadConfigFromEnv reads connection settings from the DB_* variables.
func LoadConfigFromEnv() Config {
	return Config{
		Driver:   GetEnv("DB_DRIVER", "postgres"),
		Host:     GetEnv("DB_HOST", "localhost"),
		User:     GetEnv("DB_USER", "postgres"),
		Password: GetEnv("DB_PASSWORD", "postgres"),
		DBName:   GetEnv("DB_NAME", "brightclass"),
		Port:     GetEnv("DB_PORT", "5432"),
		SSLMode:  GetEnv("DB_SSLMODE", "disable"),
		TimeZone: GetEnv("DB_TIMEZONE", "UTC"),
		Path:     GetEnv("DB_PATH", "brightclass.db"),
	}
}

// SanitizeError strips the password and the raw DSN from connection errors
// so they are safe to log.
func SanitizeError(err error, cfg Config) error {
	if err == nil {
		return nil
	}

	safeDSN := fmt.Sprintf("host=%s user=%s password=*** dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Host, cfg.User, cfg.DBName, cfg.Port, cfg.SSLMode, cfg.TimeZone)

	message := err.Error()
	message = strings.ReplaceAll(message, BuildDSN(cfg), safeDSN)
	if cfg.Password != "" {
		message = strings.ReplaceAll(message, cfg.Password, "***")
	}
	return fmt.Errorf("failed to connect to database: %s", message)
}

func getEnvInt(key string, defaultValue int) int {
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
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

func getEnvFloat(key string, defaultValue float64) float64 {
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

// LoadRetryConfigFromEnv reads the connection retry strategy from the
// DB_RETRY_* variables, starting from the database defaults.
func LoadRetryConfigFromEnv() retry.Config {
	cfg := retry.DatabaseConfig()
	cfg.MaxAttempts = getEnvInt("DB_RETRY_MAX_ATTEMPTS", cfg.MaxAttempts)
	cfg.InitialDelay = getEnvDuration("DB_RETRY_INITIAL_DELAY", cfg.InitialDelay)
	cfg.MaxDelay = getEnvDuration("DB_RETRY_MAX_DELAY", cfg.MaxDelay)
	cfg.Multiplier = getEnvFloat("DB_RETRY_MULTIPLIER", cfg.Multiplier)
	return cfg
}
