// Package service assembles snapshots from the remote and local sources and
// serves the derived views consumed by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/okian/wasuremon/internal/domain/analytics"
	"github.com/okian/wasuremon/internal/domain/creature"
	"github.com/okian/wasuremon/internal/domain/dedupe"
	"github.com/okian/wasuremon/internal/domain/model"
	"github.com/okian/wasuremon/internal/domain/normalize"
	"github.com/okian/wasuremon/internal/domain/taxonomy"
	"github.com/okian/wasuremon/internal/domain/types"
	"github.com/okian/wasuremon/pkg/logger"
	"github.com/okian/wasuremon/pkg/metrics"
)

// Snapshot is one consistent read of every source, already merged and
// normalized. Nothing in it is shared with later loads.
type Snapshot struct {
	Taxonomy model.Taxonomy
	Catalog  *taxonomy.Catalog
	Events   []model.EventRecord
	Ledger   model.FeedLedger
	LoadedAt time.Time
}

// Service serves derived views. It keeps no domain state between calls;
// every view is computed from a fresh snapshot.
type Service struct {
	remote RemoteSource
	local  LocalSource

	now    func() time.Time
	loc    *time.Location
	locale language.Tag
	logger logger.Logger

	// monitoring only
	mu    sync.RWMutex
	stats loadStats
}

type loadStats struct {
	loads          int
	lastLoadedAt   time.Time
	lastEvents     int
	lastCreatures  int
	sourceFailures map[string]int
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRemote sets the remote source. A nil source means remote is disabled.
func WithRemote(r RemoteSource) Option {
	return func(s *Service) {
		s.remote = r
	}
}

// WithLocal sets the local cache source.
func WithLocal(l LocalSource) Option {
	return func(s *Service) {
		s.local = l
	}
}

// WithClock sets the source of "now".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone used for timestamps and calendar bucketing.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLocale sets the collation locale for display names.
func WithLocale(tag language.Tag) Option {
	return func(s *Service) {
		s.locale = tag
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service.
func New(opts ...Option) *Service {
	s := &Service{
		now:    time.Now,
		loc:    time.Local,
		locale: language.Japanese,
		logger: logger.Nop(),
		stats:  loadStats{sourceFailures: map[string]int{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadSnapshot reads every source and builds a snapshot. Remote events and
// remote taxonomy are fetched concurrently; any failing or absent source
// contributes an empty collection.
func (s *Service) LoadSnapshot(ctx context.Context) Snapshot {
	start := time.Now()

	var (
		wg             sync.WaitGroup
		remoteEvents   []model.RawEvent
		remoteTaxonomy model.Taxonomy
	)
	if s.remote != nil {
		wg.Add(2)
		go func() {
			defer wg.Done()
			evs, err := s.remote.FetchEvents(ctx)
			if err != nil {
				s.sourceFailed(ctx, SourceRemoteEvents, err)
				return
			}
			remoteEvents = evs
		}()
		go func() {
			defer wg.Done()
			t, err := s.remote.FetchTaxonomy(ctx)
			if err != nil {
				s.sourceFailed(ctx, SourceRemoteTaxonomy, err)
				return
			}
			remoteTaxonomy = t
		}()
	}

	var (
		localEvents   []model.RawEvent
		localTaxonomy model.Taxonomy
		ledger        = model.FeedLedger{}
	)
	if s.local != nil {
		if evs, err := s.local.ReadEvents(ctx); err != nil {
			s.sourceFailed(ctx, SourceLocalEvents, err)
		} else {
			localEvents = evs
		}
		if t, err := s.local.ReadTaxonomy(ctx); err != nil {
			s.sourceFailed(ctx, SourceLocalTaxonomy, err)
		} else {
			localTaxonomy = t
		}
		if l, err := s.local.ReadFeedLedger(ctx); err != nil {
			s.sourceFailed(ctx, SourceFeedLedger, err)
		} else if l != nil {
			ledger = l
		}
	}
	wg.Wait()
	metrics.RecordSnapshotLoadLatency(float64(time.Since(start).Microseconds()) / 1000)

	merger := taxonomy.NewMerger(
		taxonomy.WithLogger(s.logger),
		taxonomy.WithDuplicateHook(func(d taxonomy.Duplicate) {
			metrics.RecordTaxonomyDuplicate(string(d.Kind))
			if d.Conflict {
				metrics.RecordIntegrityWarning()
			}
		}),
	)
	// remote before default before custom
	primary := remoteTaxonomy.Stamp(types.OriginRemote).Concat(taxonomy.Defaults().Stamp(types.OriginLocal))
	merged := merger.MergeAll(ctx, primary, localTaxonomy.Stamp(types.OriginLocal))
	catalog := taxonomy.NewCatalog(merged)

	raws := make([]model.RawEvent, 0, len(remoteEvents)+len(localEvents))
	raws = append(raws, remoteEvents...)
	raws = append(raws, localEvents...)
	n := normalize.New(
		normalize.WithClock(s.now),
		normalize.WithLocation(s.loc),
		normalize.WithLogger(s.logger),
	)
	records, report := n.Normalize(ctx, raws, catalog)
	for origin, count := range report.ByOrigin {
		metrics.RecordEventsNormalized(string(origin), count)
	}
	for field, count := range report.Defaults {
		metrics.RecordFieldDefault(field, count)
	}

	events := dedupeEvents(records)
	metrics.RecordSnapshotLoaded()

	snap := Snapshot{
		Taxonomy: merged,
		Catalog:  catalog,
		Events:   events,
		Ledger:   ledger,
		LoadedAt: s.now(),
	}
	s.mu.Lock()
	s.stats.loads++
	s.stats.lastLoadedAt = snap.LoadedAt
	s.stats.lastEvents = len(events)
	s.mu.Unlock()

	s.logger.Debug(ctx, "snapshot loaded",
		logger.Int("remote_events", len(remoteEvents)),
		logger.Int("local_events", len(localEvents)),
		logger.Int("events", len(events)),
		logger.Int("taxonomy_entries", merged.Len()),
	)
	return snap
}

// dedupeEvents keeps the first record for each id. Remote records precede
// local ones, so a mirrored local copy is dropped.
func dedupeEvents(records []model.EventRecord) []model.EventRecord {
	set := dedupe.New[model.EventRecord](len(records))
	for _, r := range records {
		if _, dup := set.Add(r.ID, r); dup {
			metrics.RecordEventDuplicate()
		}
	}
	return set.Values()
}

func (s *Service) sourceFailed(ctx context.Context, source string, err error) {
	s.logger.Warn(ctx, "source unavailable, using empty collection",
		logger.String("source", source), logger.Error(err))
	metrics.RecordSourceFailure(source)
	s.mu.Lock()
	s.stats.sourceFailures[source]++
	s.mu.Unlock()
}

func (s *Service) analyticsEngine() *analytics.Engine {
	return analytics.New(
		analytics.WithClock(s.now),
		analytics.WithLocation(s.loc),
		analytics.WithLocale(s.locale),
	)
}

// GetMergedTaxonomy returns the selectable entries of kind: the "All"
// sentinel plus entries referenced by at least one event.
func (s *Service) GetMergedTaxonomy(ctx context.Context, kind types.Kind) []model.TaxonomyEntry {
	snap := s.LoadSnapshot(ctx)
	return taxonomy.Selectable(kind, snap.Taxonomy.Entries(kind), snap.Events)
}

// GetTaxonomyCatalog returns every merged entry of kind, used or not.
func (s *Service) GetTaxonomyCatalog(ctx context.Context, kind types.Kind) []model.TaxonomyEntry {
	return s.LoadSnapshot(ctx).Taxonomy.Entries(kind)
}

// GetCreatures aggregates the filtered events into creatures.
func (s *Service) GetCreatures(ctx context.Context, filters model.Filters) []model.Creature {
	snap := s.LoadSnapshot(ctx)
	start := time.Now()
	out := creature.Aggregate(filters.Apply(snap.Events), snap.Ledger)
	metrics.RecordRecomputeLatency("creatures", float64(time.Since(start).Microseconds())/1000)
	metrics.UpdateCreatures(len(out))

	s.mu.Lock()
	s.stats.lastCreatures = len(out)
	s.mu.Unlock()
	return out
}

// GetCreature returns the creature for one item type over all events.
func (s *Service) GetCreature(ctx context.Context, itemTypeID string) (model.Creature, bool) {
	return creature.Find(s.GetCreatures(ctx, model.Filters{}), itemTypeID)
}

// GetAnalyticsSnapshot computes distributions for window and filters.
func (s *Service) GetAnalyticsSnapshot(ctx context.Context, window types.Window, filters model.Filters) model.AnalyticsSnapshot {
	snap := s.LoadSnapshot(ctx)
	start := time.Now()
	out := s.analyticsEngine().Snapshot(snap.Events, window, filters)
	metrics.RecordRecomputeLatency("analytics", float64(time.Since(start).Microseconds())/1000)
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	failures := make(map[string]int, len(s.stats.sourceFailures))
	for k, v := range s.stats.sourceFailures {
		failures[k] = v
	}
	stats := map[string]interface{}{
		"remoteEnabled":  s.remote != nil,
		"localEnabled":   s.local != nil,
		"loads":          s.stats.loads,
		"lastEvents":     s.stats.lastEvents,
		"lastCreatures":  s.stats.lastCreatures,
		"sourceFailures": failures,
		"locale":         s.locale.String(),
		"timezone":       s.loc.String(),
	}
	if !s.stats.lastLoadedAt.IsZero() {
		stats["lastLoadedAt"] = s.stats.lastLoadedAt
	}
	return stats
}
