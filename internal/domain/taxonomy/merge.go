// Package taxonomy merges category, item-type and situation definitions from
// several origins into one canonical, deduplicated taxonomy.
package taxonomy

import (
	"context"

	"github.com/okian/wasuremon/internal/domain/dedupe"
	"github.com/okian/wasuremon/internal/domain/model"
	"github.com/okian/wasuremon/internal/domain/types"
	"github.com/okian/wasuremon/pkg/logger"
)

// Duplicate describes an entry dropped because an earlier one shared its
// name+emoji key. Conflict is set when both carried different categories.
type Duplicate struct {
	Kind     types.Kind
	Kept     model.TaxonomyEntry
	Dropped  model.TaxonomyEntry
	Conflict bool
}

// Option applies a configuration option to the Merger.
type Option func(*Merger)

// WithLogger sets the logger used for integrity warnings.
func WithLogger(l logger.Logger) Option {
	return func(m *Merger) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithDuplicateHook registers fn to observe every dropped duplicate.
func WithDuplicateHook(fn func(Duplicate)) Option {
	return func(m *Merger) {
		m.onDuplicate = fn
	}
}

// Merger deduplicates taxonomy candidates. It keeps no state between calls.
type Merger struct {
	logger      logger.Logger
	onDuplicate func(Duplicate)
}

// NewMerger creates a Merger.
func NewMerger(opts ...Option) *Merger {
	m := &Merger{logger: logger.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge walks primary then secondary and keeps the first entry for each
// name+emoji key. The kind's "All" sentinel always comes first. The
// "did not forget" item never survives as an item type.
func (m *Merger) Merge(ctx context.Context, kind types.Kind, primary, secondary []model.TaxonomyEntry) []model.TaxonomyEntry {
	sentinel := All(kind)
	set := dedupe.New[model.TaxonomyEntry](len(primary) + len(secondary) + 1)
	set.Add(sentinel.DedupKey(), sentinel)

	for _, list := range [][]model.TaxonomyEntry{primary, secondary} {
		for _, e := range list {
			if e.Name == "" && e.Emoji == "" {
				m.logger.Debug(ctx, "skipping blank taxonomy entry",
					logger.String("kind", string(kind)), logger.String("id", e.ID))
				continue
			}
			if kind == types.KindItemType && IsNone(e) {
				continue
			}
			if e.Kind == "" {
				e.Kind = kind
			}
			kept, dup := set.Add(e.DedupKey(), e)
			if !dup || IsAll(e) {
				continue
			}
			m.reportDuplicate(ctx, Duplicate{
				Kind:     kind,
				Kept:     kept,
				Dropped:  e,
				Conflict: kept.CategoryID != "" && e.CategoryID != "" && kept.CategoryID != e.CategoryID,
			})
		}
	}
	return set.Values()
}

func (m *Merger) reportDuplicate(ctx context.Context, d Duplicate) {
	if d.Conflict {
		m.logger.Warn(ctx, "taxonomy integrity: duplicate entry maps to a different category",
			logger.String("kind", string(d.Kind)),
			logger.String("name", d.Kept.Name),
			logger.String("emoji", d.Kept.Emoji),
			logger.String("kept_id", d.Kept.ID),
			logger.String("kept_origin", string(d.Kept.Origin)),
			logger.String("kept_category", d.Kept.CategoryID),
			logger.String("dropped_id", d.Dropped.ID),
			logger.String("dropped_origin", string(d.Dropped.Origin)),
			logger.String("dropped_category", d.Dropped.CategoryID),
		)
	}
	if m.onDuplicate != nil {
		m.onDuplicate(d)
	}
}

// MergeAll merges every kind of two taxonomies. The name+emoji key space is
// shared across kinds: categories claim keys first, then item types, then
// situations, and a later kind loses any key an earlier kind already holds.
func (m *Merger) MergeAll(ctx context.Context, primary, secondary model.Taxonomy) model.Taxonomy {
	owners := make(map[string]model.TaxonomyEntry)
	claim := func(kind types.Kind, merged []model.TaxonomyEntry) []model.TaxonomyEntry {
		out := merged[:0]
		for _, e := range merged {
			if IsAll(e) {
				out = append(out, e)
				continue
			}
			if kept, taken := owners[e.DedupKey()]; taken {
				m.reportDuplicate(ctx, Duplicate{Kind: kind, Kept: kept, Dropped: e})
				continue
			}
			owners[e.DedupKey()] = e
			out = append(out, e)
		}
		return out
	}
	return model.Taxonomy{
		Categories: claim(types.KindCategory, m.Merge(ctx, types.KindCategory, primary.Categories, secondary.Categories)),
		ItemTypes:  claim(types.KindItemType, m.Merge(ctx, types.KindItemType, primary.ItemTypes, secondary.ItemTypes)),
		Situations: claim(types.KindSituation, m.Merge(ctx, types.KindSituation, primary.Situations, secondary.Situations)),
	}
}

// Selectable projects merged entries down to what a filter UI may offer: the
// sentinel plus entries referenced by at least one event. Hidden entries stay
// valid for lookup through a Catalog.
func Selectable(kind types.Kind, entries []model.TaxonomyEntry, events []model.EventRecord) []model.TaxonomyEntry {
	used := make(map[string]struct{})
	for _, e := range events {
		switch kind {
		case types.KindCategory:
			used[e.CategoryID] = struct{}{}
		case types.KindItemType:
			used[e.ItemTypeID] = struct{}{}
		case types.KindSituation:
			for _, id := range e.SituationIDs {
				used[id] = struct{}{}
			}
		}
	}

	out := make([]model.TaxonomyEntry, 0, len(entries))
	for _, e := range entries {
		if IsAll(e) {
			out = append(out, e)
			continue
		}
		if kind == types.KindItemType && IsNone(e) {
			continue
		}
		if _, ok := used[e.ID]; ok {
			out = append(out, e)
		}
	}
	return out
}
