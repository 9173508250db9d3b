package teamstats

// SplitLine is a win/draw/loss tally over a subset of a team's fixtures.
type SplitLine struct {
	Played       int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
}

func (s SplitLine) GoalDifference() int {
	return s.GoalsFor - s.GoalsAgainst
}

// TeamStatistics is one standings row plus derived market indicators.
// A full league recomputation replaces the whole set atomically.
type TeamStatistics struct {
	TeamID     int64
	LeagueID   int64
	SeasonID   int64
	SeasonYear int
	TeamName   string

	Overall SplitLine
	Home    SplitLine
	Away    SplitLine

	Points int
	Rank   int

	// Form is the last five complete fixtures, oldest first, as "W", "D", "L".
	Form string

	// Integer-rounded percentages over complete fixtures.
	PointsSharePct      int
	Over25Pct           int
	BTTSPct             int
	CleanSheetPct       int
	ScoredFirstHalfPct  int
	ScoredSecondHalfPct int
}

func (t TeamStatistics) GoalDifference() int {
	return t.Overall.GoalDifference()
}
