package model

import (
	"cmp"
	"encoding/json"
	"slices"
	"time"

	"github.com/okian/wasuremon/internal/domain/types"
)

// RawEvent is an un-normalized event payload. It is implemented only by
// RemoteEvent and LocalEvent; the normalizer resolves the variant once.
type RawEvent interface {
	Origin() types.Origin
}

// RemoteEvent is the structured record served by the remote log.
// Loosely typed fields stay raw until normalization.
type RemoteEvent struct {
	ID         string          `json:"id"`
	Item       string          `json:"item"`
	ItemTypeID string          `json:"item_type_id,omitempty"`
	CategoryID string          `json:"category_id,omitempty"`
	Severity   json.RawMessage `json:"severity,omitempty"`
	Situations json.RawMessage `json:"situations,omitempty"`
	OccurredAt json.RawMessage `json:"occurred_at,omitempty"`
	Forgot     json.RawMessage `json:"forgot,omitempty"`
}

// Origin implements RawEvent.
func (RemoteEvent) Origin() types.Origin { return types.OriginRemote }

// LocalEvent is the loosely-typed record kept in the local cache.
type LocalEvent struct {
	ID           string          `json:"id,omitempty"`
	ItemLabel    string          `json:"itemLabel,omitempty"`
	ItemTypeID   string          `json:"itemTypeId,omitempty"`
	CategoryID   string          `json:"categoryId,omitempty"`
	Severity     json.RawMessage `json:"severity,omitempty"`
	Situation    json.RawMessage `json:"situation,omitempty"`
	Timestamp    json.RawMessage `json:"timestamp,omitempty"`
	WasForgotten json.RawMessage `json:"wasForgotten,omitempty"`
}

// Origin implements RawEvent.
func (LocalEvent) Origin() types.Origin { return types.OriginLocal }

// EventRecord is one normalized occurrence. It is never mutated after the
// normalizer produces it.
type EventRecord struct {
	ID            string       `json:"id"`
	ItemTypeID    string       `json:"item_type_id"`
	CategoryID    string       `json:"category_id"`
	ItemLabel     string       `json:"item_label"`
	ItemName      string       `json:"item_name,omitempty"` // catalog display name
	ItemEmoji     string       `json:"item_emoji,omitempty"`
	CategoryEmoji string       `json:"category_emoji,omitempty"`
	Severity      int          `json:"severity"`
	SituationIDs  []string     `json:"situation_ids"`
	OccurredAt    time.Time    `json:"occurred_at"`
	WasForgotten  bool         `json:"was_forgotten"`
	Origin        types.Origin `json:"origin"`
}

// DisplayName is the catalog name of the item type, or the record's own
// label when the catalog does not know it.
func (e EventRecord) DisplayName() string {
	if e.ItemName != "" {
		return e.ItemName
	}
	return e.ItemLabel
}

// HasSituation reports whether id is among the record's situations.
func (e EventRecord) HasSituation(id string) bool {
	return slices.Contains(e.SituationIDs, id)
}

// SupersedesForDisplay reports whether e should replace o as the record that
// supplies display fields. Later occurrences win; remaining ties fall through
// id, label and emoji so the choice never depends on input order.
func (e EventRecord) SupersedesForDisplay(o EventRecord) bool {
	if c := e.OccurredAt.Compare(o.OccurredAt); c != 0 {
		return c > 0
	}
	if c := cmp.Compare(e.ID, o.ID); c != 0 {
		return c > 0
	}
	if c := cmp.Compare(e.ItemLabel, o.ItemLabel); c != 0 {
		return c > 0
	}
	if c := cmp.Compare(e.ItemEmoji, o.ItemEmoji); c != 0 {
		return c > 0
	}
	if c := cmp.Compare(e.CategoryID, o.CategoryID); c != 0 {
		return c > 0
	}
	return e.CategoryEmoji > o.CategoryEmoji
}

// Filters narrows an event set. Empty fields do not filter.
type Filters struct {
	CategoryID  string `json:"category_id,omitempty"`
	ItemType    string `json:"item_type,omitempty"` // catalog display name
	SituationID string `json:"situation_id,omitempty"`
}

// Match reports whether e passes every non-empty filter (exact match).
func (f Filters) Match(e EventRecord) bool {
	if f.CategoryID != "" && e.CategoryID != f.CategoryID {
		return false
	}
	if f.ItemType != "" && e.DisplayName() != f.ItemType {
		return false
	}
	if f.SituationID != "" && !e.HasSituation(f.SituationID) {
		return false
	}
	return true
}

// Apply returns the records matching f, preserving order.
func (f Filters) Apply(events []EventRecord) []EventRecord {
	out := make([]EventRecord, 0, len(events))
	for _, e := range events {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
