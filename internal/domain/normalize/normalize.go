// Package normalize converts remote and local raw event payloads into
// EventRecords. It never fails: unparsable fields degrade to defaults.
package normalize

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/wasuremon/internal/domain/model"
	"github.com/okian/wasuremon/internal/domain/taxonomy"
	"github.com/okian/wasuremon/internal/domain/types"
	"github.com/okian/wasuremon/pkg/logger"
)

// Field names used in Report.Defaults.
const (
	FieldSeverity   = "severity"
	FieldOccurredAt = "occurred_at"
	FieldSituations = "situations"
	FieldItem       = "item"
	FieldID         = "id"
	FieldForgotten  = "was_forgotten"
)

// idNamespace seeds derived ids for records that arrive without one.
var idNamespace = uuid.MustParse("7f1c3a9e-52d4-4b8e-9a61-0c2f5e8d4b17")

// Report summarizes one normalization pass.
type Report struct {
	ByOrigin map[types.Origin]int
	Defaults map[string]int
}

func newReport() Report {
	return Report{ByOrigin: map[types.Origin]int{}, Defaults: map[string]int{}}
}

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithClock sets the source of the ingestion instant used for bad timestamps.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// WithLocation sets the zone for timestamps that carry none.
func WithLocation(loc *time.Location) Option {
	return func(n *Normalizer) {
		if loc != nil {
			n.loc = loc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.logger = l
		}
	}
}

// Normalizer resolves raw payloads against a taxonomy catalog.
type Normalizer struct {
	now    func() time.Time
	loc    *time.Location
	logger logger.Logger
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		now:    time.Now,
		loc:    time.Local,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// fields is the origin-independent view of one raw record.
type fields struct {
	origin     types.Origin
	id         string
	label      string
	itemTypeID string
	categoryID string // trusted only for local records
	severity   json.RawMessage
	situations json.RawMessage
	occurredAt json.RawMessage
	forgot     json.RawMessage
}

func extract(raw model.RawEvent) (fields, bool) {
	switch r := raw.(type) {
	case model.RemoteEvent:
		return fields{
			origin:     types.OriginRemote,
			id:         r.ID,
			label:      r.Item,
			itemTypeID: r.ItemTypeID,
			severity:   r.Severity,
			situations: r.Situations,
			occurredAt: r.OccurredAt,
			forgot:     r.Forgot,
		}, true
	case *model.RemoteEvent:
		if r == nil {
			return fields{}, false
		}
		return extract(*r)
	case model.LocalEvent:
		return fields{
			origin:     types.OriginLocal,
			id:         r.ID,
			label:      r.ItemLabel,
			itemTypeID: r.ItemTypeID,
			categoryID: r.CategoryID,
			severity:   r.Severity,
			situations: r.Situation,
			occurredAt: r.Timestamp,
			forgot:     r.WasForgotten,
		}, true
	case *model.LocalEvent:
		if r == nil {
			return fields{}, false
		}
		return extract(*r)
	}
	return fields{}, false
}

// Normalize converts raws in order. The ingestion instant is read once per
// call so every defaulted timestamp in a batch agrees.
func (n *Normalizer) Normalize(ctx context.Context, raws []model.RawEvent, catalog *taxonomy.Catalog) ([]model.EventRecord, Report) {
	if catalog == nil {
		catalog = taxonomy.NewCatalog(model.Taxonomy{})
	}
	report := newReport()
	ingestedAt := n.now()
	out := make([]model.EventRecord, 0, len(raws))

	for i, raw := range raws {
		f, ok := extract(raw)
		if !ok {
			n.logger.Warn(ctx, "unrecognized raw event shape", logger.Int("index", i))
			continue
		}
		rec := n.normalizeOne(ctx, i, f, catalog, ingestedAt, &report)
		report.ByOrigin[rec.Origin]++
		out = append(out, rec)
	}
	return out, report
}

func (n *Normalizer) normalizeOne(ctx context.Context, index int, f fields, catalog *taxonomy.Catalog, ingestedAt time.Time, report *Report) model.EventRecord {
	rec := model.EventRecord{Origin: f.origin}
	f.label = strings.TrimSpace(f.label)
	f.itemTypeID = strings.TrimSpace(f.itemTypeID)
	f.categoryID = strings.TrimSpace(f.categoryID)

	n.resolveItem(&rec, f, catalog, report)
	n.resolveCategory(&rec, f, catalog)

	sev, ok := parseSeverity(f.severity)
	if !ok {
		report.Defaults[FieldSeverity]++
	}
	rec.Severity = sev

	at, ok := parseTime(f.occurredAt, n.loc)
	if !ok {
		report.Defaults[FieldOccurredAt]++
		n.logger.Debug(ctx, "timestamp fell back to ingestion time",
			logger.String("origin", string(f.origin)), logger.String("id", f.id))
		at = ingestedAt
	}
	rec.OccurredAt = at

	rec.SituationIDs = n.resolveSituations(f.situations, catalog, report)

	forgot, present, ok := parseFlag(f.forgot)
	if present && !ok {
		report.Defaults[FieldForgotten]++
	}
	switch {
	case rec.ItemTypeID == taxonomy.NoneItemTypeID:
		rec.WasForgotten = false
	case ok:
		rec.WasForgotten = forgot
	default:
		rec.WasForgotten = true
	}

	rec.ID = strings.TrimSpace(f.id)
	if rec.ID == "" {
		report.Defaults[FieldID]++
		rec.ID = derivedID(index, f, rec)
	}
	return rec
}

func (n *Normalizer) resolveItem(rec *model.EventRecord, f fields, catalog *taxonomy.Catalog, report *Report) {
	if f.itemTypeID == taxonomy.NoneItemTypeID || f.label == taxonomy.NoneLabel {
		rec.ItemTypeID = taxonomy.NoneItemTypeID
		rec.ItemLabel = taxonomy.NoneLabel
		return
	}

	var (
		entry model.TaxonomyEntry
		found bool
	)
	switch {
	case f.itemTypeID != "":
		entry, found = catalog.ItemType(f.itemTypeID)
	case f.label != "":
		entry, found = catalog.ItemTypeByName(f.label)
	}

	rec.ItemTypeID = f.itemTypeID
	if rec.ItemTypeID == "" && found {
		rec.ItemTypeID = entry.ID
	}
	if rec.ItemTypeID == "" {
		if row, ok := labelTable[f.label]; ok {
			rec.ItemTypeID = row.itemTypeID
		}
	}
	if rec.ItemTypeID == "" {
		rec.ItemTypeID = f.label
	}

	rec.ItemLabel = f.label
	if found {
		if rec.ItemLabel == "" {
			rec.ItemLabel = entry.Name
		}
		rec.ItemEmoji = entry.Emoji
	} else if e, ok := catalog.ItemType(rec.ItemTypeID); ok {
		entry, found = e, true
		rec.ItemEmoji = e.Emoji
	}
	if found {
		rec.ItemName = entry.Name
	}

	if rec.ItemTypeID == "" {
		report.Defaults[FieldItem]++
		rec.ItemTypeID = UnknownItemTypeID
		rec.ItemLabel = UnknownItemLabel
	}
	if rec.ItemLabel == "" {
		rec.ItemLabel = rec.ItemTypeID
	}
}

// resolveCategory: remote records are classified by label through the fixed
// table; local records keep their stored category when present.
func (n *Normalizer) resolveCategory(rec *model.EventRecord, f fields, catalog *taxonomy.Catalog) {
	switch {
	case rec.ItemTypeID == taxonomy.NoneItemTypeID:
		rec.CategoryID = taxonomy.OtherCategoryID
	case f.origin == types.OriginLocal && f.categoryID != "":
		rec.CategoryID = f.categoryID
	default:
		rec.CategoryID = CategoryForLabel(rec.ItemLabel)
	}
	if c, ok := catalog.Category(rec.CategoryID); ok {
		rec.CategoryEmoji = c.Emoji
	}
}

// resolveSituations renames legacy ids, then keeps those the catalog knows.
func (n *Normalizer) resolveSituations(raw json.RawMessage, catalog *taxonomy.Catalog, report *Report) []string {
	ids, ok := parseIDs(raw)
	if !ok {
		report.Defaults[FieldSituations]++
	}
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = CanonicalSituation(id)
		if _, known := catalog.Situation(id); !known {
			report.Defaults[FieldSituations]++
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// derivedID builds a stable id from the record's position and content.
func derivedID(index int, f fields, rec model.EventRecord) string {
	var b strings.Builder
	b.WriteString(string(f.origin))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(index))
	b.WriteByte('|')
	b.WriteString(rec.ItemTypeID)
	b.WriteByte('|')
	b.Write(f.occurredAt)
	b.WriteByte('|')
	b.Write(f.severity)
	return uuid.NewSHA1(idNamespace, []byte(b.String())).String()
}
