package config

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// Host to bind; empty binds all interfaces.
	Host string
	// Port accepts ":8080" or "8080".
	Port string
	// ReadTimeout bounds reading a full request.
	ReadTimeout time.Duration
	// WriteTimeout bounds writing a response.
	WriteTimeout time.Duration
	// IdleTimeout bounds keep-alive waits between requests.
	IdleTimeout time.Duration
	// ShutdownTimeout is the grace period for in-flight requests on shutdown.
	ShutdownTimeout time.Duration
}

// LoadServerConfigFromEnv reads listener settings from the SERVER_* variables.
func LoadServerConfigFromEnv() ServerConfig {
	return ServerConfig{
		Host:            GetEnv("SERVER_HOST", ""),
		Port:            GetEnv("SERVER_PORT", ":8080"),
		ReadTimeout:     GetEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    GetEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:     GetEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout: GetEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// GetAddress returns the listen address in host:port form.
func (c ServerConfig) GetAddress() string {
	if c.Host == "" {
		return c.Port
	}
	// net.JoinHostPort supplies the colon itself.
	return net.JoinHostPort(c.Host, strings.TrimPrefix(c.Port, ":"))
}

// Validate rejects non-positive timeouts.
func (c ServerConfig) Validate() error {
	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"ReadTimeout", c.ReadTimeout},
		{"WriteTimeout", c.WriteTimeout},
		{"IdleTimeout", c.IdleTimeout},
		{"ShutdownTimeout", c.ShutdownTimeout},
	}
	for _, timeout := range timeouts {
		if timeout.value <= 0 {
			return fmt.Errorf("%s must be greater than 0", timeout.name)
		}
	}
	return nil
}
