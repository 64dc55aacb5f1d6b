package taxonomy

import (
	"github.com/okian/wasuremon/internal/domain/model"
)

// Catalog indexes a merged taxonomy for id and name lookups.
type Catalog struct {
	categories map[string]model.TaxonomyEntry
	itemTypes  map[string]model.TaxonomyEntry
	itemNames  map[string]model.TaxonomyEntry
	situations map[string]model.TaxonomyEntry
}

// NewCatalog indexes t. Sentinels are not indexed. When several item types
// share a name the first one wins the name index.
func NewCatalog(t model.Taxonomy) *Catalog {
	c := &Catalog{
		categories: make(map[string]model.TaxonomyEntry, len(t.Categories)),
		itemTypes:  make(map[string]model.TaxonomyEntry, len(t.ItemTypes)),
		itemNames:  make(map[string]model.TaxonomyEntry, len(t.ItemTypes)),
		situations: make(map[string]model.TaxonomyEntry, len(t.Situations)),
	}
	index := func(dst map[string]model.TaxonomyEntry, entries []model.TaxonomyEntry) {
		for _, e := range entries {
			if IsAll(e) || e.ID == "" {
				continue
			}
			if _, ok := dst[e.ID]; !ok {
				dst[e.ID] = e
			}
		}
	}
	index(c.categories, t.Categories)
	index(c.itemTypes, t.ItemTypes)
	index(c.situations, t.Situations)
	for _, e := range t.ItemTypes {
		if IsAll(e) || e.Name == "" {
			continue
		}
		if _, ok := c.itemNames[e.Name]; !ok {
			c.itemNames[e.Name] = e
		}
	}
	return c
}

// Category looks up a category by id.
func (c *Catalog) Category(id string) (model.TaxonomyEntry, bool) {
	e, ok := c.categories[id]
	return e, ok
}

// ItemType looks up an item type by id.
func (c *Catalog) ItemType(id string) (model.TaxonomyEntry, bool) {
	e, ok := c.itemTypes[id]
	return e, ok
}

// ItemTypeByName looks up an item type by display name (exact match).
func (c *Catalog) ItemTypeByName(name string) (model.TaxonomyEntry, bool) {
	e, ok := c.itemNames[name]
	return e, ok
}

// Situation looks up a situation by id.
func (c *Catalog) Situation(id string) (model.TaxonomyEntry, bool) {
	e, ok := c.situations[id]
	return e, ok
}
