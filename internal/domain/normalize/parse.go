package normalize

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Epoch values above this are read as milliseconds.
const epochMillisThreshold = 1e12

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006-01-02",
	"2006/01/02",
}

func isAbsent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// parseSeverity accepts a JSON number or numeric string and clamps it.
// ok is false when the default had to be used.
func parseSeverity(raw json.RawMessage) (sev int, ok bool) {
	if isAbsent(raw) {
		return DefaultSeverity, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return DefaultSeverity, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return DefaultSeverity, false
		}
		f = v
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultSeverity, false
	}
	n := int(math.Round(f))
	return max(MinSeverity, min(MaxSeverity, n)), true
}

// parseFlag accepts a JSON bool or a string strconv.ParseBool understands.
// present is false when the field is missing or null.
func parseFlag(raw json.RawMessage) (v, present, ok bool) {
	if isAbsent(raw) {
		return false, false, false
	}
	if err := json.Unmarshal(raw, &v); err == nil {
		return v, true, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, true, false
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	return v, true, err == nil
}

// parseTime accepts RFC 3339, a few zone-less layouts interpreted in loc,
// and epoch seconds or milliseconds.
func parseTime(raw json.RawMessage, loc *time.Location) (time.Time, bool) {
	if isAbsent(raw) {
		return time.Time{}, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return time.Time{}, false
		}
		return fromEpoch(f)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpoch(f)
	}
	return time.Time{}, false
}

func fromEpoch(f float64) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return time.Time{}, false
	}
	if f >= epochMillisThreshold {
		return time.UnixMilli(int64(f)), true
	}
	return time.Unix(int64(f), 0), true
}

// parseIDs accepts a single string or a list of strings. Non-string list
// members are skipped; ok is false if anything had to be discarded.
func parseIDs(raw json.RawMessage) (ids []string, ok bool) {
	if isAbsent(raw) {
		return nil, true
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		one = strings.TrimSpace(one)
		if one == "" {
			return nil, true
		}
		return []string{one}, true
	}
	var many []json.RawMessage
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, false
	}
	ok = true
	for _, m := range many {
		var s string
		if err := json.Unmarshal(m, &s); err != nil {
			ok = false
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			ids = append(ids, s)
		}
	}
	return ids, ok
}
