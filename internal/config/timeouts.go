package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	InstanceRunning   time.Duration // Timeout for a launched instance to reach running
	Delete            time.Duration // Timeout for each delete operation, including waits
	Rollback          time.Duration // Overall budget for unwinding the rollback stack
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - CLOUDTEMPLATE_TIMEOUT_INSTANCE_RUNNING (default: 5m)
//   - CLOUDTEMPLATE_TIMEOUT_DELETE (default: 15m)
//   - CLOUDTEMPLATE_TIMEOUT_ROLLBACK (default: 30m)
//   - CLOUDTEMPLATE_RETRY_MAX_ATTEMPTS (default: 5)
//   - CLOUDTEMPLATE_RETRY_INITIAL_DELAY (default: 2s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		InstanceRunning:   parseDuration("CLOUDTEMPLATE_TIMEOUT_INSTANCE_RUNNING", 5*time.Minute),
		Delete:            parseDuration("CLOUDTEMPLATE_TIMEOUT_DELETE", 15*time.Minute),
		Rollback:          parseDuration("CLOUDTEMPLATE_TIMEOUT_ROLLBACK", 30*time.Minute),
		RetryMaxAttempts:  parseInt("CLOUDTEMPLATE_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("CLOUDTEMPLATE_RETRY_INITIAL_DELAY", 2*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
