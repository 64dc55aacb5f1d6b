// Package seed fills the local cache with synthetic forgotten-item events
// and feed counters for demos and manual testing.
package seed

import (
	"fmt"
	"time"
)

// Config holds configuration for one seeding run.
type Config struct {
	CachePath     string        // sqlite cache file to write
	NumEvents     int           // number of events to generate
	Span          time.Duration // events are spread over [now-Span, now]
	RememberedPct int           // share of "did not forget" records, 0-100
	MaxFeeds      int           // upper bound for generated feed counters
	RandSeed      uint64        // seed for reproducible output
	Append        bool          // keep existing cached events
}

// Stats summarizes a seeding run.
type Stats struct {
	EventsGenerated int
	EventsWritten   int
	ItemTypes       int
	StartTime       time.Time
	Duration        time.Duration
}

// Validate checks cfg for values the generator cannot use.
func (c *Config) Validate() error {
	switch {
	case c.CachePath == "":
		return fmt.Errorf("cache path is required: %w", ErrInvalidConfig)
	case c.NumEvents < 0:
		return fmt.Errorf("events must not be negative: %w", ErrInvalidConfig)
	case c.Span <= 0:
		return fmt.Errorf("span must be positive: %w", ErrInvalidConfig)
	case c.RememberedPct < 0 || c.RememberedPct > percent:
		return fmt.Errorf("remembered percentage must be within 0-100: %w", ErrInvalidConfig)
	case c.MaxFeeds < 0:
		return fmt.Errorf("max feeds must not be negative: %w", ErrInvalidConfig)
	}
	return nil
}
