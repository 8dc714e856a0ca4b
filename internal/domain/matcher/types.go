package matcher

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeBuffer is returned when the configured time buffer is
// outside the supported range.
var ErrInvalidTimeBuffer = errors.New("time buffer out of range")

const (
	// DefaultTimeBuffer is the symmetric timestamp tolerance window.
	DefaultTimeBuffer = time.Hour

	// DefaultAmountTolerance is the strict upper bound on amount
	// difference (a difference of exactly this value does not match).
	DefaultAmountTolerance = 0.01

	// MaxTimeBuffer caps the configurable window at one day.
	MaxTimeBuffer = 24 * time.Hour
)

// Config holds matcher configuration
type Config struct {
	TimeBuffer      time.Duration // Symmetric window around the primary timestamp
	AmountTolerance float64       // Strict bound: |Δamount| < AmountTolerance
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		TimeBuffer:      DefaultTimeBuffer,
		AmountTolerance: DefaultAmountTolerance,
	}
}

// Validate rejects bad configurations before any matching begins.
func (c Config) Validate() error {
	if c.TimeBuffer < 0 || c.TimeBuffer > MaxTimeBuffer {
		return fmt.Errorf("%w: %s (want 0s to %s)", ErrInvalidTimeBuffer, c.TimeBuffer, MaxTimeBuffer)
	}
	return nil
}
