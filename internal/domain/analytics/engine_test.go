package analytics_test

import (
	"math"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/okian/wasuremon/internal/domain/analytics"
	"github.com/okian/wasuremon/internal/domain/model"
	"github.com/okian/wasuremon/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	jst = time.FixedZone("JST", 9*3600)
	// Wednesday 2025-03-12 12:00 JST
	now = time.Date(2025, 3, 12, 12, 0, 0, 0, jst)
)

func rec(id, item, category string, sev int, at time.Time) model.EventRecord {
	return model.EventRecord{
		ID:           id,
		ItemTypeID:   item,
		ItemLabel:    item,
		CategoryID:   category,
		Severity:     sev,
		OccurredAt:   at,
		WasForgotten: true,
		SituationIDs: []string{"rushing"},
	}
}

func engine(opts ...analytics.Option) *analytics.Engine {
	base := []analytics.Option{
		analytics.WithClock(func() time.Time { return now }),
		analytics.WithLocation(jst),
	}
	return analytics.New(append(base, opts...)...)
}

func TestSnapshotWeekday(t *testing.T) {
	Convey("Given an event on a Sunday", t, func() {
		sunday := time.Date(2025, 3, 2, 23, 30, 0, 0, jst)
		snap := engine().Snapshot([]model.EventRecord{rec("1", "key", "valuables", 3, sunday)}, types.WindowAll, model.Filters{})

		Convey("Then only bucket zero is incremented", func() {
			So(snap.PerWeekday, ShouldResemble, [7]int{1, 0, 0, 0, 0, 0, 0})
			So(snap.TotalCount, ShouldEqual, 1)
		})
	})

	Convey("Given a UTC instant that is already Monday in the configured zone", t, func() {
		at := time.Date(2025, 3, 2, 20, 0, 0, 0, time.UTC) // Monday 05:00 JST
		snap := engine().Snapshot([]model.EventRecord{rec("1", "key", "valuables", 3, at)}, types.WindowAll, model.Filters{})
		So(snap.PerWeekday[1], ShouldEqual, 1)
		So(snap.PerCalendarDay["2025-03-03"], ShouldEqual, 1)
	})
}

func TestSnapshotWindowAndFilters(t *testing.T) {
	Convey("Given events spread over two months", t, func() {
		events := []model.EventRecord{
			rec("1", "key", "valuables", 3, now.Add(-1*time.Hour)),
			rec("2", "key", "valuables", 3, now.Add(-6*24*time.Hour)),
			rec("3", "umbrella", "daily", 2, now.Add(-10*24*time.Hour)),
			rec("4", "hat", "clothing", 5, now.Add(-40*24*time.Hour)),
		}
		remembered := rec("5", "none", "other", 3, now.Add(-2*time.Hour))
		remembered.WasForgotten = false
		events = append(events, remembered)

		Convey("When the window is a week", func() {
			snap := engine().Snapshot(events, types.WindowWeek, model.Filters{})
			So(snap.TotalCount, ShouldEqual, 2)
			So(snap.RememberedCount, ShouldEqual, 1)
			So(snap.Window, ShouldEqual, types.WindowWeek)
		})

		Convey("When the window is a month", func() {
			snap := engine().Snapshot(events, types.WindowMonth, model.Filters{})
			So(snap.TotalCount, ShouldEqual, 3)
		})

		Convey("When there is no window", func() {
			snap := engine().Snapshot(events, types.WindowAll, model.Filters{})
			So(snap.TotalCount, ShouldEqual, 4)
		})

		Convey("When filtering by category", func() {
			snap := engine().Snapshot(events, types.WindowAll, model.Filters{CategoryID: "daily"})
			So(snap.TotalCount, ShouldEqual, 1)
			So(snap.CategoryShares, ShouldHaveLength, 1)
			So(snap.CategoryShares[0].Pct, ShouldEqual, 100)
		})

		Convey("When filtering by item display name and situation", func() {
			snap := engine().Snapshot(events, types.WindowAll, model.Filters{ItemType: "key", SituationID: "rushing"})
			So(snap.TotalCount, ShouldEqual, 2)
			snap = engine().Snapshot(events, types.WindowAll, model.Filters{SituationID: "tired"})
			So(snap.TotalCount, ShouldEqual, 0)
		})

		Convey("Then the calendar covers the current month regardless of the window", func() {
			snap := engine().Snapshot(events, types.WindowWeek, model.Filters{})
			So(snap.PerCalendarDay["2025-03-12"], ShouldEqual, 1)
			So(snap.PerCalendarDay["2025-03-06"], ShouldEqual, 1)
			So(snap.PerCalendarDay["2025-03-02"], ShouldEqual, 1)
			So(snap.PerCalendarDay, ShouldHaveLength, 3)
		})

		Convey("Then the month grid lays out March", func() {
			grid := engine().Snapshot(events, types.WindowAll, model.Filters{}).MonthGrid
			So(grid.Year, ShouldEqual, 2025)
			So(grid.Month, ShouldEqual, 3)
			So(grid.LeadingBlanks, ShouldEqual, 6)
			So(grid.Days, ShouldHaveLength, 31)
			So(grid.Days[11], ShouldResemble, model.DayCell{Date: "2025-03-12", Count: 1})
		})
	})
}

func TestCategoryShares(t *testing.T) {
	Convey("Given three categories", t, func() {
		events := []model.EventRecord{
			rec("1", "key", "valuables", 1, now),
			rec("2", "wallet", "valuables", 1, now),
			rec("3", "phone", "gadgets", 1, now),
			rec("4", "lunch", "daily", 1, now),
			rec("5", "mask", "daily", 1, now),
			rec("6", "umbrella", "daily", 1, now),
		}
		shares := analytics.CategoryShares(events)

		Convey("Then shares are ordered by count and sum to 100", func() {
			So(shares, ShouldHaveLength, 3)
			So(shares[0].CategoryID, ShouldEqual, "daily")
			So(shares[1].CategoryID, ShouldEqual, "valuables")
			So(shares[2].CategoryID, ShouldEqual, "gadgets")
			sum := 0.0
			for _, s := range shares {
				sum += s.Pct
			}
			So(math.Abs(sum-100), ShouldBeLessThanOrEqualTo, 0.01)
		})
	})

	Convey("Given thirds", t, func() {
		shares := analytics.CategoryShares([]model.EventRecord{
			rec("1", "a", "x", 1, now), rec("2", "b", "y", 1, now), rec("3", "c", "z", 1, now),
		})
		sum := 0.0
		for _, s := range shares {
			sum += s.Pct
		}
		So(math.Abs(sum-100), ShouldBeLessThanOrEqualTo, 0.01)
		So(shares[0].CategoryID, ShouldEqual, "x")
	})

	Convey("Given no events", t, func() {
		snap := engine().Snapshot(nil, types.WindowAll, model.Filters{})
		So(snap.TotalCount, ShouldEqual, 0)
		So(snap.CategoryShares, ShouldBeEmpty)
		for _, s := range snap.CategoryShares {
			So(s.Pct, ShouldEqual, 0)
		}
		So(snap.SeverityRanking, ShouldBeEmpty)
	})
}

func TestSeverityRanking(t *testing.T) {
	Convey("Given events with varying severity", t, func() {
		events := []model.EventRecord{
			rec("1", "key", "valuables", 5, now),
			rec("2", "key", "valuables", 4, now),
			rec("3", "wallet", "valuables", 3, now),
			rec("4", "wallet", "valuables", 3, now),
			rec("5", "wallet", "valuables", 3, now),
			rec("6", "ghost", "other", 0, now),
		}
		ranking := engine().SeverityRanking(events)

		Convey("Then totals order the rows and ties fall to count", func() {
			So(ranking, ShouldHaveLength, 2)
			So(ranking[0].ItemTypeID, ShouldEqual, "wallet")
			So(ranking[0].TotalSeverity, ShouldEqual, 9)
			So(ranking[0].Count, ShouldEqual, 3)
			So(ranking[0].AvgSeverity, ShouldEqual, 3)
			So(ranking[1].ItemTypeID, ShouldEqual, "key")
			So(ranking[1].AvgSeverity, ShouldEqual, 4.5)
		})

		Convey("Then zero-severity item types never appear", func() {
			for _, r := range ranking {
				So(r.ItemTypeID, ShouldNotEqual, "ghost")
			}
		})
	})

	Convey("Given a full tie on total and count", t, func() {
		banana := rec("1", "1", "daily", 3, now)
		banana.ItemLabel = "Banana"
		apple := rec("2", "2", "daily", 3, now)
		apple.ItemLabel = "apple"

		Convey("Then display names are compared by collation, not bytes", func() {
			ranking := engine(analytics.WithLocale(language.English)).SeverityRanking([]model.EventRecord{banana, apple})
			So(ranking[0].DisplayName, ShouldEqual, "apple")
			So(ranking[1].DisplayName, ShouldEqual, "Banana")
		})
	})
}

func TestSeverityRankingIdenticalIDs(t *testing.T) {
	Convey("Given two records sharing both id and instant", t, func() {
		a := rec("dup", "key", "valuables", 3, now)
		b := rec("dup", "key", "valuables", 3, now)
		a.ItemLabel, b.ItemLabel = "鍵", "カギ"

		Convey("Then the row's display name does not depend on input order", func() {
			ab := engine().SeverityRanking([]model.EventRecord{a, b})
			ba := engine().SeverityRanking([]model.EventRecord{b, a})
			So(ab, ShouldResemble, ba)
			So(ab[0].DisplayName, ShouldEqual, "鍵")
		})
	})
}
