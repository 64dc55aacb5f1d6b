// Package types contains common enumerations used across the application.
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownValue is returned when parsing an enumeration from text fails.
var ErrUnknownValue = errors.New("unknown value")

// Kind identifies a taxonomy dimension.
type Kind string

// Taxonomy kinds.
const (
	KindCategory  Kind = "category"
	KindItemType  Kind = "item_type"
	KindSituation Kind = "situation"
)

// Kinds lists every taxonomy kind in presentation order.
var Kinds = []Kind{KindCategory, KindItemType, KindSituation}

// ParseKind accepts the canonical names plus a few plural/camel aliases used
// by query strings.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "category", "categories":
		return KindCategory, nil
	case "item_type", "item_types", "itemtype", "itemtypes", "type", "types":
		return KindItemType, nil
	case "situation", "situations":
		return KindSituation, nil
	}
	return "", fmt.Errorf("kind %q: %w", s, ErrUnknownValue)
}

// Origin records which source of truth produced a value.
type Origin string

// Origins.
const (
	OriginRemote Origin = "remote"
	OriginLocal  Origin = "local"
)

// Rank is a discrete tier. Higher values rank higher: C < B < A < S < SS.
type Rank int

// Ranks in ascending order.
const (
	RankC Rank = iota
	RankB
	RankA
	RankS
	RankSS
)

var rankNames = [...]string{"C", "B", "A", "S", "SS"}

func (r Rank) String() string {
	if r < RankC || r > RankSS {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

// MarshalText encodes the rank as its letter.
func (r Rank) MarshalText() ([]byte, error) {
	if r < RankC || r > RankSS {
		return nil, fmt.Errorf("rank %d: %w", int(r), ErrUnknownValue)
	}
	return []byte(rankNames[r]), nil
}

// UnmarshalText decodes a rank letter.
func (r *Rank) UnmarshalText(b []byte) error {
	s := strings.ToUpper(strings.TrimSpace(string(b)))
	for i, name := range rankNames {
		if name == s {
			*r = Rank(i)
			return nil
		}
	}
	return fmt.Errorf("rank %q: %w", s, ErrUnknownValue)
}

// Window is a relative analytics time window.
type Window string

// Windows. WindowAll applies no time bound.
const (
	WindowAll   Window = "all"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

const day = 24 * time.Hour

// Duration returns the window length; zero for WindowAll.
func (w Window) Duration() time.Duration {
	switch w {
	case WindowWeek:
		return 7 * day
	case WindowMonth:
		return 30 * day
	default:
		return 0
	}
}

// ParseWindow parses a window name. Empty input means WindowAll.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return WindowAll, nil
	case "week":
		return WindowWeek, nil
	case "month":
		return WindowMonth, nil
	}
	return "", fmt.Errorf("window %q: %w", s, ErrUnknownValue)
}
