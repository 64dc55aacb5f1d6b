// Package model contains domain models passed between layers.
package model

import "github.com/okian/wasuremon/internal/domain/types"

// TaxonomyEntry is one category, item type or situation definition.
type TaxonomyEntry struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Emoji      string       `json:"emoji"`
	Kind       types.Kind   `json:"kind,omitempty"`
	CategoryID string       `json:"category_id,omitempty"` // item types only
	Origin     types.Origin `json:"origin,omitempty"`
}

// DedupKey is the name+emoji pair used to collapse duplicates across origins.
func (e TaxonomyEntry) DedupKey() string {
	return e.Name + "\x00" + e.Emoji
}

// Taxonomy groups entries by kind as delivered by one source.
type Taxonomy struct {
	Categories []TaxonomyEntry `json:"categories"`
	ItemTypes  []TaxonomyEntry `json:"item_types"`
	Situations []TaxonomyEntry `json:"situations"`
}

// Entries returns the slice holding kind.
func (t Taxonomy) Entries(kind types.Kind) []TaxonomyEntry {
	switch kind {
	case types.KindCategory:
		return t.Categories
	case types.KindItemType:
		return t.ItemTypes
	case types.KindSituation:
		return t.Situations
	}
	return nil
}

// Len returns the number of entries across all kinds.
func (t Taxonomy) Len() int {
	return len(t.Categories) + len(t.ItemTypes) + len(t.Situations)
}

// Stamp returns a copy with Kind and Origin set on every entry.
func (t Taxonomy) Stamp(origin types.Origin) Taxonomy {
	stamp := func(in []TaxonomyEntry, kind types.Kind) []TaxonomyEntry {
		out := make([]TaxonomyEntry, len(in))
		for i, e := range in {
			e.Kind = kind
			e.Origin = origin
			out[i] = e
		}
		return out
	}
	return Taxonomy{
		Categories: stamp(t.Categories, types.KindCategory),
		ItemTypes:  stamp(t.ItemTypes, types.KindItemType),
		Situations: stamp(t.Situations, types.KindSituation),
	}
}

// Concat appends the entries of others after t, kind by kind.
func (t Taxonomy) Concat(others ...Taxonomy) Taxonomy {
	out := Taxonomy{
		Categories: append([]TaxonomyEntry(nil), t.Categories...),
		ItemTypes:  append([]TaxonomyEntry(nil), t.ItemTypes...),
		Situations: append([]TaxonomyEntry(nil), t.Situations...),
	}
	for _, o := range others {
		out.Categories = append(out.Categories, o.Categories...)
		out.ItemTypes = append(out.ItemTypes, o.ItemTypes...)
		out.Situations = append(out.Situations, o.Situations...)
	}
	return out
}
