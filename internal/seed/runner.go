package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/okian/wasuremon/internal/adapters/repository"
	"github.com/okian/wasuremon/internal/domain/model"
	"github.com/okian/wasuremon/pkg/logger"
)

// Store is the subset of the local cache the seeder reads and writes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	WriteEvents(ctx context.Context, events []model.LocalEvent) error
	WriteFeedLedger(ctx context.Context, ledger model.FeedLedger) error
}

// Run generates events and counters and writes them to store.
func Run(ctx context.Context, cfg *Config, store Store, now time.Time) (Stats, error) {
	stats := Stats{StartTime: time.Now()}
	if err := cfg.Validate(); err != nil {
		return stats, err
	}
	log := logger.Get().Named("seed")

	g := NewGenerator(cfg.RandSeed)
	events := g.Events(cfg.NumEvents, now, cfg.Span, cfg.RememberedPct)
	stats.EventsGenerated = len(events)
	ledger := g.FeedLedger(events, cfg.MaxFeeds)
	stats.ItemTypes = len(ledger)

	if cfg.Append {
		existing, err := existingEvents(ctx, store)
		if err != nil {
			return stats, err
		}
		events = append(existing, events...)
	}

	if err := store.WriteEvents(ctx, events); err != nil {
		return stats, fmt.Errorf("write events: %w", err)
	}
	if err := store.WriteFeedLedger(ctx, ledger); err != nil {
		return stats, fmt.Errorf("write feed ledger: %w", err)
	}
	stats.EventsWritten = len(events)
	stats.Duration = time.Since(stats.StartTime)

	log.Info(ctx, "seeded local cache",
		logger.String("cache_path", cfg.CachePath),
		logger.Int("generated", stats.EventsGenerated),
		logger.Int("written", stats.EventsWritten),
		logger.Int("item_types", stats.ItemTypes),
	)
	return stats, nil
}

// existingEvents reads cached records as-is so appending never rewrites them.
func existingEvents(ctx context.Context, store Store) ([]model.LocalEvent, error) {
	raw, ok, err := store.Get(ctx, repository.KeyEvents)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var events []model.LocalEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("existing events are not appendable: %w", err)
	}
	return events, nil
}
