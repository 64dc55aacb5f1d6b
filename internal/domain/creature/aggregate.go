// Package creature groups forgotten-item events into per-item-type creatures.
package creature

import (
	"cmp"
	"slices"

	"github.com/okian/wasuremon/internal/domain/model"
	"github.com/okian/wasuremon/internal/domain/scoring"
)

// group accumulates one item type. latest is the record that supplies the
// display fields.
type group struct {
	count  int
	peak   int
	latest model.EventRecord
}

// Aggregate builds one Creature per item type that has at least one
// forgotten record. Growth levels come from ledger, which may be nil.
//
// Output is ordered by encounter count desc, last sighting desc, then
// item type id, and is identical for any permutation of events.
func Aggregate(events []model.EventRecord, ledger model.FeedLedger) []model.Creature {
	groups := make(map[string]*group)
	for _, e := range events {
		if !e.WasForgotten {
			continue
		}
		g, ok := groups[e.ItemTypeID]
		if !ok {
			groups[e.ItemTypeID] = &group{count: 1, peak: e.Severity, latest: e}
			continue
		}
		g.count++
		g.peak = max(g.peak, e.Severity)
		if e.SupersedesForDisplay(g.latest) {
			g.latest = e
		}
	}

	out := make([]model.Creature, 0, len(groups))
	for id, g := range groups {
		out = append(out, model.Creature{
			ItemTypeID:     id,
			DisplayName:    g.latest.ItemLabel,
			ItemEmoji:      g.latest.ItemEmoji,
			CategoryID:     g.latest.CategoryID,
			CategoryEmoji:  g.latest.CategoryEmoji,
			EncounterCount: g.count,
			PeakSeverity:   g.peak,
			LastSeenAt:     g.latest.OccurredAt,
			Rank:           scoring.RankByEncounterCount(g.count),
			GrowthLevel:    scoring.GrowthLevel(ledger[id]),
			LatestSeverity: g.latest.Severity,
			DifficultyRank: scoring.RankByDifficulty(g.latest.Severity),
		})
	}

	slices.SortFunc(out, func(a, b model.Creature) int {
		if c := cmp.Compare(b.EncounterCount, a.EncounterCount); c != 0 {
			return c
		}
		if c := b.LastSeenAt.Compare(a.LastSeenAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ItemTypeID, b.ItemTypeID)
	})
	return out
}

// Find returns the creature for itemTypeID.
func Find(creatures []model.Creature, itemTypeID string) (model.Creature, bool) {
	i := slices.IndexFunc(creatures, func(c model.Creature) bool { return c.ItemTypeID == itemTypeID })
	if i < 0 {
		return model.Creature{}, false
	}
	return creatures[i], true
}
