// Package scoring derives ranks and growth levels from fixed threshold tables.
//
// Two rank scales exist and are intentionally kept apart: one grades how
// often an item was forgotten, the other grades a single severity sample.
package scoring

import "github.com/okian/wasuremon/internal/domain/types"

// Growth constants.
const (
	FeedsPerLevel = 5
	LevelCap      = 100
)

// threshold maps a lower bound to a rank. Tables are scanned top-down.
type threshold struct {
	min  int
	rank types.Rank
}

// encounterTable: n>20 SS, n>15 S, n>10 A, n>5 B, else C (strict bounds).
var encounterTable = []threshold{
	{min: 21, rank: types.RankSS},
	{min: 16, rank: types.RankS},
	{min: 11, rank: types.RankA},
	{min: 6, rank: types.RankB},
}

// difficultyTable: d>=9 SS, d>=7 S, d>=5 A, d>=3 B, else C (inclusive bounds).
var difficultyTable = []threshold{
	{min: 9, rank: types.RankSS},
	{min: 7, rank: types.RankS},
	{min: 5, rank: types.RankA},
	{min: 3, rank: types.RankB},
}

func lookup(table []threshold, v int) types.Rank {
	for _, t := range table {
		if v >= t.min {
			return t.rank
		}
	}
	return types.RankC
}

// RankByEncounterCount grades how often an item type was forgotten.
func RankByEncounterCount(n int) types.Rank {
	return lookup(encounterTable, n)
}

// RankByDifficulty grades a single severity sample.
func RankByDifficulty(d int) types.Rank {
	return lookup(difficultyTable, d)
}

// GrowthLevel converts a feed count into a level, capped at LevelCap.
// Negative counts are treated as zero.
func GrowthLevel(feedCount int) int {
	if feedCount <= 0 {
		return 0
	}
	return min(feedCount/FeedsPerLevel, LevelCap)
}

// FeedsToNextLevel returns how many feeds remain until the next level, or 0
// once the cap is reached.
func FeedsToNextLevel(feedCount int) int {
	if feedCount < 0 {
		feedCount = 0
	}
	if GrowthLevel(feedCount) >= LevelCap {
		return 0
	}
	return FeedsPerLevel - feedCount%FeedsPerLevel
}
