package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	service "github.com/okian/wasuremon/internal/app"
	"github.com/okian/wasuremon/internal/domain/model"
	"github.com/okian/wasuremon/internal/domain/taxonomy"
	"github.com/okian/wasuremon/internal/domain/types"
	"github.com/okian/wasuremon/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var (
	jst = time.FixedZone("JST", 9*3600)
	now = time.Date(2025, 3, 12, 12, 0, 0, 0, jst)
)

type fakeRemote struct {
	events    []model.RawEvent
	taxonomy  model.Taxonomy
	eventsErr error
	taxErr    error
	inFlight  atomic.Int32
	overlap   atomic.Bool
}

func (f *fakeRemote) enter() func() {
	if f.inFlight.Add(1) > 1 {
		f.overlap.Store(true)
	}
	time.Sleep(20 * time.Millisecond)
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeRemote) FetchEvents(context.Context) ([]model.RawEvent, error) {
	defer f.enter()()
	return f.events, f.eventsErr
}

func (f *fakeRemote) FetchTaxonomy(context.Context) (model.Taxonomy, error) {
	defer f.enter()()
	return f.taxonomy, f.taxErr
}

type fakeLocal struct {
	events   []model.RawEvent
	taxonomy model.Taxonomy
	ledger   model.FeedLedger
	err      error
}

func (f *fakeLocal) ReadEvents(context.Context) ([]model.RawEvent, error) { return f.events, f.err }
func (f *fakeLocal) ReadTaxonomy(context.Context) (model.Taxonomy, error) {
	return f.taxonomy, f.err
}
func (f *fakeLocal) ReadFeedLedger(context.Context) (model.FeedLedger, error) {
	return f.ledger, f.err
}

func at(d time.Duration) json.RawMessage {
	return json.RawMessage(`"` + now.Add(-d).Format(time.RFC3339) + `"`)
}

func sev(n string) json.RawMessage { return json.RawMessage(n) }

func newService(r service.RemoteSource, l service.LocalSource) *service.Service {
	opts := []service.Option{
		service.WithClock(func() time.Time { return now }),
		service.WithLocation(jst),
		service.WithLocal(l),
	}
	if r != nil {
		opts = append(opts, service.WithRemote(r))
	}
	return service.New(opts...)
}

func fixtures() (*fakeRemote, *fakeLocal) {
	remote := &fakeRemote{
		events: []model.RawEvent{
			model.RemoteEvent{ID: "r1", Item: "鍵", Severity: sev(`2`), OccurredAt: at(time.Hour)},
			model.RemoteEvent{ID: "r2", Item: "鍵", Severity: sev(`4`), OccurredAt: at(2 * time.Hour), Situations: json.RawMessage(`"in_a_hurry"`)},
			model.RemoteEvent{ID: "r3", Item: "鍵", Severity: sev(`3`), OccurredAt: at(3 * time.Hour)},
		},
		taxonomy: model.Taxonomy{
			Categories: []model.TaxonomyEntry{{ID: "valuables", Name: "貴重品", Emoji: "💎"}},
		},
	}
	local := &fakeLocal{
		events: []model.RawEvent{
			model.LocalEvent{ID: "r1", ItemTypeID: "umbrella"}, // mirrored remote id
			model.LocalEvent{ID: "l1", ItemTypeID: "custom-pen", ItemLabel: "ペン", CategoryID: "documents", Timestamp: at(40 * 24 * time.Hour)},
			model.LocalEvent{ID: "l2", ItemTypeID: taxonomy.NoneItemTypeID, Timestamp: at(time.Hour)},
		},
		taxonomy: model.Taxonomy{
			ItemTypes: []model.TaxonomyEntry{
				{ID: "custom-pen", Name: "ペン", Emoji: "🖊️", CategoryID: "documents"},
				{ID: "custom-key", Name: "鍵", Emoji: "🔑", CategoryID: "clothing"}, // collides with the default key
			},
		},
		ledger: model.FeedLedger{"key": 12},
	}
	return remote, local
}

func TestService_LoadSnapshot(t *testing.T) {
	Convey("Given remote and local sources", t, func() {
		remote, local := fixtures()
		svc := newService(remote, local)
		snap := svc.LoadSnapshot(context.Background())

		Convey("Then remote reads overlap", func() {
			So(remote.overlap.Load(), ShouldBeTrue)
		})

		Convey("Then events are deduplicated by id with remote first", func() {
			So(snap.Events, ShouldHaveLength, 5)
			So(snap.Events[0].ID, ShouldEqual, "r1")
			So(snap.Events[0].ItemTypeID, ShouldEqual, "key")
		})

		Convey("Then legacy situations are renamed", func() {
			So(snap.Events[1].SituationIDs, ShouldResemble, []string{"rushing"})
		})

		Convey("Then the taxonomy prefers remote, then defaults, then custom", func() {
			cats := snap.Taxonomy.Categories
			So(taxonomy.IsAll(cats[0]), ShouldBeTrue)
			So(cats[1].ID, ShouldEqual, "valuables")
			So(cats[1].Origin, ShouldEqual, types.OriginRemote)

			_, ok := snap.Catalog.ItemType("custom-key")
			So(ok, ShouldBeFalse)
			pen, ok := snap.Catalog.ItemType("custom-pen")
			So(ok, ShouldBeTrue)
			So(pen.Origin, ShouldEqual, types.OriginLocal)
		})

		Convey("Then the ledger is passed through", func() {
			So(snap.Ledger["key"], ShouldEqual, 12)
		})
	})

	Convey("Given a failing remote", t, func() {
		remote, local := fixtures()
		remote.eventsErr = errors.New("connection refused")
		remote.taxErr = errors.New("connection refused")
		svc := newService(remote, local)
		snap := svc.LoadSnapshot(context.Background())

		Convey("Then the local view is served", func() {
			So(snap.Events, ShouldHaveLength, 3)
			So(snap.Taxonomy.Categories, ShouldNotBeEmpty)
			stats := svc.GetStats()
			failures := stats["sourceFailures"].(map[string]int)
			So(failures[service.SourceRemoteEvents], ShouldEqual, 1)
			So(failures[service.SourceRemoteTaxonomy], ShouldEqual, 1)
		})
	})

	Convey("Given no sources at all", t, func() {
		svc := service.New()
		snap := svc.LoadSnapshot(context.Background())

		Convey("Then only the built-in taxonomy is present", func() {
			So(snap.Events, ShouldBeEmpty)
			So(len(snap.Taxonomy.ItemTypes), ShouldBeGreaterThan, 1)
			So(snap.Ledger, ShouldNotBeNil)
		})
	})

	Convey("Given a local cache that cannot be read", t, func() {
		remote, _ := fixtures()
		svc := newService(remote, &fakeLocal{err: errors.New("malformed")})
		snap := svc.LoadSnapshot(context.Background())
		So(snap.Events, ShouldHaveLength, 3)
		So(snap.Ledger, ShouldBeEmpty)
	})
}

func TestService_Views(t *testing.T) {
	Convey("Given a service over the fixtures", t, func() {
		remote, local := fixtures()
		svc := newService(remote, local)
		ctx := context.Background()

		Convey("When listing creatures", func() {
			creatures := svc.GetCreatures(ctx, model.Filters{})

			Convey("Then keys lead with count, peak and growth", func() {
				So(creatures, ShouldHaveLength, 2)
				So(creatures[0].ItemTypeID, ShouldEqual, "key")
				So(creatures[0].EncounterCount, ShouldEqual, 3)
				So(creatures[0].PeakSeverity, ShouldEqual, 4)
				So(creatures[0].Rank, ShouldEqual, types.RankC)
				So(creatures[0].GrowthLevel, ShouldEqual, 2)
				So(creatures[1].ItemTypeID, ShouldEqual, "custom-pen")
			})

			Convey("Then filters narrow the set", func() {
				out := svc.GetCreatures(ctx, model.Filters{CategoryID: "documents"})
				So(out, ShouldHaveLength, 1)
				So(out[0].DisplayName, ShouldEqual, "ペン")
			})

			Convey("Then a single creature can be looked up", func() {
				c, ok := svc.GetCreature(ctx, "key")
				So(ok, ShouldBeTrue)
				So(c.EncounterCount, ShouldEqual, 3)
			})
		})

		Convey("When reading the merged taxonomy", func() {
			items := svc.GetMergedTaxonomy(ctx, types.KindItemType)

			Convey("Then only used entries follow the sentinel", func() {
				So(items, ShouldHaveLength, 3)
				So(taxonomy.IsAll(items[0]), ShouldBeTrue)
				for _, it := range items {
					So(taxonomy.IsNone(it), ShouldBeFalse)
				}
			})

			Convey("Then the catalog keeps unused entries", func() {
				all := svc.GetTaxonomyCatalog(ctx, types.KindItemType)
				So(len(all), ShouldBeGreaterThan, len(items))
			})
		})

		Convey("When computing weekly analytics", func() {
			snap := svc.GetAnalyticsSnapshot(ctx, types.WindowWeek, model.Filters{})

			Convey("Then only recent forgotten records count", func() {
				So(snap.TotalCount, ShouldEqual, 3)
				So(snap.RememberedCount, ShouldEqual, 1)
				So(snap.CategoryShares, ShouldHaveLength, 1)
				So(snap.CategoryShares[0].CategoryID, ShouldEqual, "valuables")
				So(snap.CategoryShares[0].Pct, ShouldEqual, 100)
				So(snap.SeverityRanking[0].TotalSeverity, ShouldEqual, 9)
			})
		})

		Convey("When reading stats after some loads", func() {
			_ = svc.GetCreatures(ctx, model.Filters{})
			stats := svc.GetStats()
			So(stats["remoteEnabled"], ShouldEqual, true)
			So(stats["loads"], ShouldBeGreaterThanOrEqualTo, 1)
			So(stats["lastCreatures"], ShouldEqual, 2)
			So(stats["timezone"], ShouldEqual, "JST")
		})
	})
}
