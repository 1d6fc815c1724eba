package config

import "fmt"

// LoggerConfig controls how application logs are emitted.
type LoggerConfig struct {
	// Level is the minimum level written (debug, info, warn, error).
	Level string
	// Format selects the encoder: json or console.
	Format string
	// Output names the destination: stdout, stderr, or a file path.
	Output string
}

// LoadLoggerConfigFromEnv reads logger settings from the LOG_* variables,
// defaulting to json on stdout at info level.
func LoadLoggerConfigFromEnv() LoggerConfig {
	return LoggerConfig{
		Level:  GetEnv("LOG_LEVEL", "info"),
		Format: GetEnv("LOG_FORMAT", "json"),
		Output: GetEnv("LOG_OUTPUT", "stdout"),
	}
}

// Validate rejects levels and formats the logger cannot build.
func (c LoggerConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be: debug, info, warn, error)", c.Level)
	}

	switch c.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s (must be: json, console)", c.Format)
	}

	return nil
}

// IsProduction reports whether the settings describe a production logger.
// Debug level or console output implies local development.
func (c LoggerConfig) IsProduction() bool {
	return c.Format == "json" && c.Level != "debug"
}
