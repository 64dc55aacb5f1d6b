package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/okian/wasuremon/internal/adapters/repository"
	"github.com/okian/wasuremon/internal/seed"
	"github.com/okian/wasuremon/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumEvents  = 300
	defaultSpan       = 60 * 24 * time.Hour
	defaultRemembered = 15
	defaultMaxFeeds   = 120
	defaultRunTimeout = time.Minute
)

func main() {
	var (
		cachePath  = flag.String("cache", "wasuremon.db", "sqlite cache file to seed")
		numEvents  = flag.Int("events", defaultNumEvents, "Number of events to generate")
		span       = flag.Duration("span", defaultSpan, "Spread events over this much history")
		remembered = flag.Int("remembered", defaultRemembered, "Percentage of did-not-forget records")
		maxFeeds   = flag.Int("feeds", defaultMaxFeeds, "Upper bound for generated feed counters")
		randSeed   = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed")
		appendMode = flag.Bool("append", false, "Keep existing cached events")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &seed.Config{
		CachePath:     *cachePath,
		NumEvents:     *numEvents,
		Span:          *span,
		RememberedPct: *remembered,
		MaxFeeds:      *maxFeeds,
		RandSeed:      *randSeed,
		Append:        *appendMode,
	}
	if err := run(ctx, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "seed failed:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *seed.Config) error {
	store, err := repository.Open(ctx, cfg.CachePath, repository.WithLogger(logger.Get()))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	stats, err := seed.Run(ctx, cfg, store, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d events (%d generated, %d item types) to %s in %s\n",
		stats.EventsWritten, stats.EventsGenerated, stats.ItemTypes, cfg.CachePath, stats.Duration)
	return nil
}
