package model

import (
	"time"

	"github.com/okian/wasuremon/internal/domain/types"
)

// Creature is the derived collectible for one item type. It is regenerated
// on every aggregation pass and never stored.
type Creature struct {
	ItemTypeID     string     `json:"item_type_id"`
	DisplayName    string     `json:"display_name"`
	ItemEmoji      string     `json:"item_emoji,omitempty"`
	CategoryID     string     `json:"category_id"`
	CategoryEmoji  string     `json:"category_emoji,omitempty"`
	EncounterCount int        `json:"encounter_count"`
	PeakSeverity   int        `json:"peak_severity"`
	LastSeenAt     time.Time  `json:"last_seen_at"`
	Rank           types.Rank `json:"rank"`
	GrowthLevel    int        `json:"growth_level"`

	// Severity of the latest sighting, graded on the single-sample scale.
	LatestSeverity int        `json:"latest_severity"`
	DifficultyRank types.Rank `json:"difficulty_rank"`
}

// FeedLedger maps item type ids to externally tracked feed counts.
type FeedLedger map[string]int
