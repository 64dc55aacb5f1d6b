// Package analytics computes windowed, filtered distributions over event
// records. Every snapshot is recomputed from scratch.
package analytics

import (
	"cmp"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/wasuremon/internal/domain/model"
	"github.com/okian/wasuremon/internal/domain/types"
)

const dateLayout = "2006-01-02"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock sets the source of "now" for windows and the month grid.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the zone used for weekday and calendar-day bucketing.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithLocale sets the collation used to order tied display names.
func WithLocale(tag language.Tag) Option {
	return func(e *Engine) {
		e.locale = tag
	}
}

// Engine holds only configuration; it keeps no state between calls.
type Engine struct {
	now    func() time.Time
	loc    *time.Location
	locale language.Tag
}

// New creates an Engine. The default locale is Japanese.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:    time.Now,
		loc:    time.Local,
		locale: language.Japanese,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot filters events and derives every distribution. Only forgotten
// records are counted; remembered ones contribute to RememberedCount.
func (e *Engine) Snapshot(events []model.EventRecord, window types.Window, filters model.Filters) model.AnalyticsSnapshot {
	now := e.now().In(e.loc)
	matched := filters.Apply(events)

	snap := model.AnalyticsSnapshot{
		Window:         window,
		Filters:        filters,
		PerCalendarDay: make(map[string]int),
	}

	inWindow := make([]model.EventRecord, 0, len(matched))
	cutoff := now.Add(-window.Duration())
	for _, ev := range matched {
		if window.Duration() > 0 && ev.OccurredAt.Before(cutoff) {
			continue
		}
		if !ev.WasForgotten {
			snap.RememberedCount++
			continue
		}
		inWindow = append(inWindow, ev)
	}

	snap.TotalCount = len(inWindow)
	for _, ev := range inWindow {
		snap.PerWeekday[ev.OccurredAt.In(e.loc).Weekday()]++
	}

	// The calendar ignores the window and covers the current month.
	year, month, _ := now.Date()
	for _, ev := range matched {
		if !ev.WasForgotten {
			continue
		}
		t := ev.OccurredAt.In(e.loc)
		if y, m, _ := t.Date(); y == year && m == month {
			snap.PerCalendarDay[t.Format(dateLayout)]++
		}
	}
	snap.MonthGrid = e.monthGrid(year, month, snap.PerCalendarDay)

	snap.CategoryShares = CategoryShares(inWindow)
	snap.SeverityRanking = e.SeverityRanking(inWindow)
	return snap
}

func (e *Engine) monthGrid(year int, month time.Month, perDay map[string]int) model.MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, e.loc)
	days := first.AddDate(0, 1, -1).Day()
	grid := model.MonthGrid{
		Year:          year,
		Month:         int(month),
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]model.DayCell, 0, days),
	}
	for d := range days {
		key := first.AddDate(0, 0, d).Format(dateLayout)
		grid.Days = append(grid.Days, model.DayCell{Date: key, Count: perDay[key]})
	}
	return grid
}

// CategoryShares groups events by category. Shares are percentages of the
// total and sum to 100 whenever events is non-empty.
func CategoryShares(events []model.EventRecord) []model.CategoryShare {
	index := make(map[string]int)
	out := make([]model.CategoryShare, 0)
	for _, ev := range events {
		i, ok := index[ev.CategoryID]
		if !ok {
			i = len(out)
			index[ev.CategoryID] = i
			out = append(out, model.CategoryShare{CategoryID: ev.CategoryID, CategoryEmoji: ev.CategoryEmoji})
		}
		out[i].Count++
	}
	total := len(events)
	for i := range out {
		if total > 0 {
			out[i].Pct = float64(out[i].Count) / float64(total) * 100
		}
	}
	slices.SortFunc(out, func(a, b model.CategoryShare) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.CategoryID, b.CategoryID)
	})
	return out
}

type severityGroup struct {
	row    model.SeverityRank
	latest model.EventRecord
}

// SeverityRanking sums severity per item type. Rows are ordered by total
// desc, count desc, then display name under the engine's collation. Item
// types whose total is zero are left out.
func (e *Engine) SeverityRanking(events []model.EventRecord) []model.SeverityRank {
	groups := make(map[string]*severityGroup)
	for _, ev := range events {
		g, ok := groups[ev.ItemTypeID]
		if !ok {
			g = &severityGroup{row: model.SeverityRank{ItemTypeID: ev.ItemTypeID}, latest: ev}
			groups[ev.ItemTypeID] = g
		}
		g.row.TotalSeverity += ev.Severity
		g.row.Count++
		if ev.SupersedesForDisplay(g.latest) {
			g.latest = ev
		}
	}

	out := make([]model.SeverityRank, 0, len(groups))
	for _, g := range groups {
		if g.row.TotalSeverity == 0 {
			continue
		}
		g.row.DisplayName = g.latest.ItemLabel
		g.row.AvgSeverity = float64(g.row.TotalSeverity) / float64(g.row.Count)
		out = append(out, g.row)
	}

	// collate.Collator is not safe for concurrent use.
	col := collate.New(e.locale)
	slices.SortFunc(out, func(a, b model.SeverityRank) int {
		if c := cmp.Compare(b.TotalSeverity, a.TotalSeverity); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := col.CompareString(a.DisplayName, b.DisplayName); c != 0 {
			return c
		}
		return cmp.Compare(a.ItemTypeID, b.ItemTypeID)
	})
	return out
}
