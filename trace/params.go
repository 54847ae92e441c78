package trace

import (
	"fmt"
	"time"
)

const (
	// DefaultMaxHops bounds the sweep when the caller doesn't say otherwise.
	DefaultMaxHops = 30
	// DefaultTimeout is the per-probe reply wait.
	DefaultTimeout = 10 * time.Second
)

// Config bounds a single trace. Immutable for its duration.
type Config struct {
	// MaxHops is the TTL used for the full-distance destination probe; the
	// hop sweep runs from 1 through MaxHops-1.
	MaxHops int
	// Timeout is how long each individual probe waits for a reply.
	Timeout time.Duration
}

// InvalidConfigError reports a Config that must be rejected before any
// probing starts.
type InvalidConfigError struct {
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid trace config: %s", e.Reason)
}

// DefaultConfig returns the tool's stock limits (30 hops, 10s per probe).
func DefaultConfig() Config {
	return Config{
		MaxHops: DefaultMaxHops,
		Timeout: DefaultTimeout,
	}
}

func (c Config) validate() error {
	if c.MaxHops < 1 {
		return &InvalidConfigError{Reason: fmt.Sprintf("max hops must be positive, got %d", c.MaxHops)}
	}
	if c.Timeout < 0 {
		return &InvalidConfigError{Reason: fmt.Sprintf("timeout must be non-negative, got %s", c.Timeout)}
	}
	return nil
}
