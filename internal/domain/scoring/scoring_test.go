package scoring_test

import (
	"testing"

	scoring "github.com/okian/wasuremon/internal/domain/scoring"
	"github.com/okian/wasuremon/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRankByEncounterCount(t *testing.T) {
	Convey("Given the encounter-count table", t, func() {
		cases := []struct {
			n    int
			want types.Rank
		}{
			{0, types.RankC}, {3, types.RankC}, {5, types.RankC},
			{6, types.RankB}, {10, types.RankB},
			{11, types.RankA}, {15, types.RankA},
			{16, types.RankS}, {20, types.RankS},
			{21, types.RankSS}, {500, types.RankSS},
			{-4, types.RankC},
		}

		Convey("Then every boundary maps to the expected tier", func() {
			for _, c := range cases {
				So(scoring.RankByEncounterCount(c.n), ShouldEqual, c.want)
			}
		})

		Convey("Then the rank never decreases as the count grows", func() {
			prev := scoring.RankByEncounterCount(0)
			for n := 1; n <= 60; n++ {
				cur := scoring.RankByEncounterCount(n)
				So(cur, ShouldBeGreaterThanOrEqualTo, prev)
				prev = cur
			}
		})
	})
}

func TestRankByDifficulty(t *testing.T) {
	Convey("Given the single-severity table", t, func() {
		cases := []struct {
			d    int
			want types.Rank
		}{
			{1, types.RankC}, {2, types.RankC},
			{3, types.RankB}, {4, types.RankB},
			{5, types.RankA}, {6, types.RankA},
			{7, types.RankS}, {8, types.RankS},
			{9, types.RankSS}, {10, types.RankSS},
		}

		Convey("Then every boundary maps to the expected tier", func() {
			for _, c := range cases {
				So(scoring.RankByDifficulty(c.d), ShouldEqual, c.want)
			}
		})

		Convey("Then it differs from the encounter table on the same input", func() {
			So(scoring.RankByDifficulty(5), ShouldEqual, types.RankA)
			So(scoring.RankByEncounterCount(5), ShouldEqual, types.RankC)
		})
	})
}

func TestGrowthLevel(t *testing.T) {
	Convey("Given feed counts", t, func() {
		Convey("When the count is 12", func() {
			So(scoring.GrowthLevel(12), ShouldEqual, 2)
			So(scoring.FeedsToNextLevel(12), ShouldEqual, 3)
		})

		Convey("When the count exceeds the cap", func() {
			So(scoring.GrowthLevel(503), ShouldEqual, 100)
			So(scoring.GrowthLevel(500), ShouldEqual, 100)
			So(scoring.FeedsToNextLevel(503), ShouldEqual, 0)
		})

		Convey("When the count is zero or negative", func() {
			So(scoring.GrowthLevel(0), ShouldEqual, 0)
			So(scoring.GrowthLevel(-7), ShouldEqual, 0)
			So(scoring.FeedsToNextLevel(-7), ShouldEqual, 5)
		})

		Convey("When crossing a level boundary", func() {
			So(scoring.GrowthLevel(4), ShouldEqual, 0)
			So(scoring.GrowthLevel(5), ShouldEqual, 1)
		})
	})
}
