package model

import "github.com/okian/wasuremon/internal/domain/types"

// CategoryShare is one slice of the category distribution.
type CategoryShare struct {
	CategoryID    string  `json:"category_id"`
	CategoryEmoji string  `json:"category_emoji,omitempty"`
	Count         int     `json:"count"`
	Pct           float64 `json:"pct"`
}

// SeverityRank is one row of the severity leaderboard.
type SeverityRank struct {
	ItemTypeID    string  `json:"item_type_id"`
	DisplayName   string  `json:"display_name"`
	TotalSeverity int     `json:"total_severity"`
	Count         int     `json:"count"`
	AvgSeverity   float64 `json:"avg_severity"`
}

// DayCell is one day of the month grid.
type DayCell struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// MonthGrid lays out the current calendar month for rendering.
type MonthGrid struct {
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	LeadingBlanks int       `json:"leading_blanks"` // weekday of the 1st, Sunday = 0
	Days          []DayCell `json:"days"`
}

// AnalyticsSnapshot is fully recomputed from the filtered record set.
type AnalyticsSnapshot struct {
	Window          types.Window    `json:"window"`
	Filters         Filters         `json:"filters"`
	TotalCount      int             `json:"total_count"`
	RememberedCount int             `json:"remembered_count"`
	PerWeekday      [7]int          `json:"per_weekday"`
	PerCalendarDay  map[string]int  `json:"per_calendar_day"`
	MonthGrid       MonthGrid       `json:"month_grid"`
	CategoryShares  []CategoryShare `json:"category_shares"`
	SeverityRanking []SeverityRank  `json:"severity_ranking"`
}
