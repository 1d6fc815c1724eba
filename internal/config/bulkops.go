package config

import (
	"fmt"
	"time"
)

// BulkOpsConfig holds bulk-operation engine configuration.
type BulkOpsConfig struct {
	// Mode selects the job runner: "live" executes operations against the
	// user directory, "simulate" advances jobs on a timer without touching
	// any data.
	Mode string
	// TickInterval is the cadence of simulated progress ticks.
	TickInterval time.Duration
	// SecondsPerPercent is the time constant used for ETA estimates.
	SecondsPerPercent float64
	// SubmitDelay is the artificial latency applied before a submitted job
	// starts running (simulate mode only).
	SubmitDelay time.Duration
}

// LoadBulkOpsConfigFromEnv loads bulk-operation configuration from
// environment variables.
func LoadBulkOpsConfigFromEnv() BulkOpsConfig {
	return BulkOpsConfig{
		Mode:              GetEnv("BULKOPS_MODE", "live"),
		TickInterval:      GetEnvDuration("BULKOPS_TICK_INTERVAL", 200*time.Millisecond),
		SecondsPerPercent: float64(GetEnvInt("BULKOPS_MS_PER_PERCENT", 100)) / 1000,
		SubmitDelay:       GetEnvDuration("BULKOPS_SUBMIT_DELAY", 300*time.Millisecond),
	}
}

// Validate validates bulk-operation configuration.
func (c BulkOpsConfig) Validate() error {
	validModes := map[string]bool{
		"live":     true,
		"simulate": true,
	}
	if !validModes[c.Mode] {
		return fmt.Errorf("invalid BULKOPS_MODE: %s (must be: live, simulate)", c.Mode)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("TickInterval must be greater than 0")
	}
	if c.SecondsPerPercent < 0 {
		return fmt.Errorf("SecondsPerPercent must be non-negative")
	}
	if c.SubmitDelay < 0 {
		return fmt.Errorf("SubmitDelay must be non-negative")
	}
	return nil
}
