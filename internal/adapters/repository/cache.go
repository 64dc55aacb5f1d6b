package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/okian/wasuremon/internal/domain/model"
	"github.com/okian/wasuremon/pkg/logger"
)

// storedEntry is the camelCase taxonomy shape kept in the cache.
type storedEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Emoji      string `json:"emoji"`
	CategoryID string `json:"categoryId,omitempty"`
}

type storedTaxonomy struct {
	Categories []storedEntry `json:"categories"`
	ItemTypes  []storedEntry `json:"itemTypes"`
	Situations []storedEntry `json:"situations"`
}

// ReadEvents decodes the events payload. Records are decoded leniently one
// by one; only entries that are not JSON objects are skipped.
func (s *Store) ReadEvents(ctx context.Context) ([]model.RawEvent, error) {
	payload, ok, err := s.Get(ctx, KeyEvents)
	if err != nil || !ok {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", KeyEvents, ErrMalformedPayload, err)
	}
	out := make([]model.RawEvent, 0, len(items))
	for i, item := range items {
		ev, ok := decodeLocalEvent(item)
		if !ok {
			s.logger.Warn(ctx, "skipping cached event that is not an object", logger.Int("index", i))
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

// decodeLocalEvent reads known fields from one object. String fields also
// accept numbers; loosely typed fields stay raw for the normalizer.
func decodeLocalEvent(raw json.RawMessage) (model.LocalEvent, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return model.LocalEvent{}, false
	}
	ev := model.LocalEvent{
		ID:         text(fields["id"]),
		ItemLabel:  text(fields["itemLabel"]),
		ItemTypeID: text(fields["itemTypeId"]),
		CategoryID: text(fields["categoryId"]),
		Severity:   fields["severity"],
		Situation:  fields["situation"],
		Timestamp:  fields["timestamp"],

		WasForgotten: fields["wasForgotten"],
	}
	return ev, true
}

func text(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err == nil {
		return n.String()
	}
	return ""
}

// WriteEvents replaces the events payload.
func (s *Store) WriteEvents(ctx context.Context, events []model.LocalEvent) error {
	if events == nil {
		events = []model.LocalEvent{}
	}
	payload, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	return s.Put(ctx, KeyEvents, payload)
}

// ReadTaxonomy decodes the taxonomy payload.
func (s *Store) ReadTaxonomy(ctx context.Context) (model.Taxonomy, error) {
	payload, ok, err := s.Get(ctx, KeyTaxonomy)
	if err != nil || !ok {
		return model.Taxonomy{}, err
	}
	var st storedTaxonomy
	if err := json.Unmarshal(payload, &st); err != nil {
		return model.Taxonomy{}, fmt.Errorf("%s: %w: %w", KeyTaxonomy, ErrMalformedPayload, err)
	}
	conv := func(in []storedEntry) []model.TaxonomyEntry {
		out := make([]model.TaxonomyEntry, len(in))
		for i, e := range in {
			out[i] = model.TaxonomyEntry{ID: e.ID, Name: e.Name, Emoji: e.Emoji, CategoryID: e.CategoryID}
		}
		return out
	}
	return model.Taxonomy{
		Categories: conv(st.Categories),
		ItemTypes:  conv(st.ItemTypes),
		Situations: conv(st.Situations),
	}, nil
}

// WriteTaxonomy replaces the taxonomy payload. Kind and origin are not
// stored; they are stamped on read.
func (s *Store) WriteTaxonomy(ctx context.Context, t model.Taxonomy) error {
	conv := func(in []model.TaxonomyEntry) []storedEntry {
		out := make([]storedEntry, len(in))
		for i, e := range in {
			out[i] = storedEntry{ID: e.ID, Name: e.Name, Emoji: e.Emoji, CategoryID: e.CategoryID}
		}
		return out
	}
	payload, err := json.Marshal(storedTaxonomy{
		Categories: conv(t.Categories),
		ItemTypes:  conv(t.ItemTypes),
		Situations: conv(t.Situations),
	})
	if err != nil {
		return fmt.Errorf("encode taxonomy: %w", err)
	}
	return s.Put(ctx, KeyTaxonomy, payload)
}

// ReadFeedLedger decodes the feed counters. Negative or non-integer
// counters are dropped.
func (s *Store) ReadFeedLedger(ctx context.Context) (model.FeedLedger, error) {
	payload, ok, err := s.Get(ctx, KeyFeedLedger)
	if err != nil {
		return nil, err
	}
	ledger := model.FeedLedger{}
	if !ok {
		return ledger, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", KeyFeedLedger, ErrMalformedPayload, err)
	}
	for id, v := range raw {
		n, err := strconv.Atoi(string(bytes.TrimSpace(v)))
		if err != nil || n < 0 {
			s.logger.Warn(ctx, "dropping invalid feed counter", logger.String("item_type_id", id))
			continue
		}
		ledger[id] = n
	}
	return ledger, nil
}

// WriteFeedLedger replaces the feed counters.
func (s *Store) WriteFeedLedger(ctx context.Context, ledger model.FeedLedger) error {
	if ledger == nil {
		ledger = model.FeedLedger{}
	}
	payload, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encode feed ledger: %w", err)
	}
	return s.Put(ctx, KeyFeedLedger, payload)
}

// Feed adds n to the counter for itemTypeID and returns the new value. The
// read and write share one transaction.
func (s *Store) Feed(ctx context.Context, itemTypeID string, n int) (int, error) {
	if s == nil || s.db == nil {
		return 0, ErrNotConfigured
	}
	if itemTypeID == "" || n <= 0 {
		return 0, fmt.Errorf("feed %q by %d: %w", itemTypeID, n, ErrInvalidArgument)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin feed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ledger := map[string]int{}
	var payload []byte
	switch err := tx.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, KeyFeedLedger).Scan(&payload); {
	case err == nil:
		if err := json.Unmarshal(payload, &ledger); err != nil {
			return 0, fmt.Errorf("%s: %w: %w", KeyFeedLedger, ErrMalformedPayload, err)
		}
	case isNoRows(err):
	default:
		return 0, fmt.Errorf("read feed ledger: %w", err)
	}

	ledger[itemTypeID] += n
	payload, err = json.Marshal(ledger)
	if err != nil {
		return 0, fmt.Errorf("encode feed ledger: %w", err)
	}
	if err := put(ctx, tx, KeyFeedLedger, payload, s.now()); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit feed: %w", err)
	}
	return ledger[itemTypeID], nil
}
