package seed

import (
	"encoding/json"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/wasuremon/internal/domain/model"
	"github.com/okian/wasuremon/internal/domain/taxonomy"
)

const percent = 100

// Legacy situation ids still present in older caches.
var legacySituations = []string{"in_a_hurry", "bad_weather"}

// Generator produces synthetic cache records. Output depends only on the
// seed and the reference instant.
type Generator struct {
	rng   *rand.Rand
	items []model.TaxonomyEntry
	sits  []model.TaxonomyEntry
}

// NewGenerator creates a Generator over the built-in taxonomy.
func NewGenerator(seed uint64) *Generator {
	defaults := taxonomy.Defaults()
	items := make([]model.TaxonomyEntry, 0, len(defaults.ItemTypes))
	for _, it := range defaults.ItemTypes {
		if !taxonomy.IsNone(it) {
			items = append(items, it)
		}
	}
	return &Generator{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		items: items,
		sits:  defaults.Situations,
	}
}

// Events generates n records in the loosely typed shapes seen in real
// caches: numeric or string severity, single or listed situations, and
// RFC 3339 or epoch-millisecond timestamps.
func (g *Generator) Events(n int, now time.Time, span time.Duration, rememberedPct int) []model.LocalEvent {
	out := make([]model.LocalEvent, 0, n)
	for range n {
		at := now.Add(-time.Duration(g.rng.Int64N(int64(span))))
		ev := model.LocalEvent{
			ID:        uuid.NewString(),
			Timestamp: g.timestamp(at),
		}

		if g.rng.IntN(percent) < rememberedPct {
			ev.ItemTypeID = taxonomy.NoneItemTypeID
			ev.ItemLabel = taxonomy.NoneLabel
			ev.WasForgotten = json.RawMessage("false")
			out = append(out, ev)
			continue
		}

		// Skew toward the head of the list so rankings are not flat.
		item := g.items[min(g.rng.IntN(len(g.items)), g.rng.IntN(len(g.items)))]
		ev.ItemTypeID = item.ID
		ev.ItemLabel = item.Name
		ev.CategoryID = item.CategoryID
		ev.Severity = g.severity()
		ev.Situation = g.situations()
		out = append(out, ev)
	}
	return out
}

func (g *Generator) timestamp(at time.Time) json.RawMessage {
	if g.rng.IntN(4) == 0 {
		return json.RawMessage(strconv.FormatInt(at.UnixMilli(), 10))
	}
	return json.RawMessage(strconv.Quote(at.Format(time.RFC3339)))
}

func (g *Generator) severity() json.RawMessage {
	s := strconv.Itoa(1 + g.rng.IntN(5))
	if g.rng.IntN(5) == 0 {
		return json.RawMessage(strconv.Quote(s))
	}
	return json.RawMessage(s)
}

func (g *Generator) situations() json.RawMessage {
	switch g.rng.IntN(4) {
	case 0:
		return nil
	case 1:
		return json.RawMessage(strconv.Quote(g.sits[g.rng.IntN(len(g.sits))].ID))
	case 2:
		return json.RawMessage(strconv.Quote(legacySituations[g.rng.IntN(len(legacySituations))]))
	}
	a := g.sits[g.rng.IntN(len(g.sits))].ID
	b := g.sits[g.rng.IntN(len(g.sits))].ID
	raw, _ := json.Marshal([]string{a, b})
	return raw
}

// FeedLedger assigns a random counter in [0, maxFeeds] to each item type
// that appears in events.
func (g *Generator) FeedLedger(events []model.LocalEvent, maxFeeds int) model.FeedLedger {
	ledger := model.FeedLedger{}
	if maxFeeds <= 0 {
		return ledger
	}
	for _, ev := range events {
		if ev.ItemTypeID == taxonomy.NoneItemTypeID {
			continue
		}
		if _, ok := ledger[ev.ItemTypeID]; !ok {
			ledger[ev.ItemTypeID] = g.rng.IntN(maxFeeds + 1)
		}
	}
	return ledger
}
