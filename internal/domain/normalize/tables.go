package normalize

import (
	"github.com/okian/wasuremon/internal/domain/taxonomy"
)

// Field defaults.
const (
	DefaultSeverity = 3
	MinSeverity     = 1
	MaxSeverity     = 5

	// UnknownItemTypeID is used when a record names no item at all.
	UnknownItemTypeID = "unknown"
	UnknownItemLabel  = "不明"
)

// labelEntry is one row of the fixed label table.
type labelEntry struct {
	itemTypeID string
	categoryID string
}

// labelTable maps built-in item display names to their ids. Lookups are
// exact; anything else belongs to the "other" category.
var labelTable = func() map[string]labelEntry {
	items := taxonomy.Defaults().ItemTypes
	t := make(map[string]labelEntry, len(items))
	for _, e := range items {
		t[e.Name] = labelEntry{itemTypeID: e.ID, categoryID: e.CategoryID}
	}
	return t
}()

// situationAliases renames historical snake_case situation ids.
var situationAliases = map[string]string{
	"in_a_hurry":  "rushing",
	"bad_weather": "weather",
}

// CategoryForLabel resolves a free-text item label through the fixed table.
func CategoryForLabel(label string) string {
	if e, ok := labelTable[label]; ok {
		return e.categoryID
	}
	return taxonomy.OtherCategoryID
}

// CanonicalSituation applies the legacy rename table.
func CanonicalSituation(id string) string {
	if to, ok := situationAliases[id]; ok {
		return to
	}
	return id
}
