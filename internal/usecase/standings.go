package usecase

import (
	"math"
	"sort"

	"github.com/futstats/campeonatos/internal/domain/fixture"
	"github.com/futstats/campeonatos/internal/domain/teamstats"
)

type standingsAccumulator struct {
	teamID   int64
	teamName string
	overall  teamstats.SplitLine
	home     teamstats.SplitLine
	away     teamstats.SplitLine
	points   int

	over25           int
	btts             int
	cleanSheets      int
	scoredFirstHalf  int
	scoredSecondHalf int

	// complete fixtures touching the team, kickoff ascending
	played []fixture.Fixture
}

// BuildTeamStatistics folds the league's complete fixtures into one standings
// row per team. Pure: same input always yields the same output slice, already
// ranked. Fixtures that are not complete, fail validation or belong to
// another league are ignored. Teams without a complete fixture get no row.
func BuildTeamStatistics(leagueID, seasonID int64, seasonYear int, fixtures []fixture.Fixture, teamNames map[int64]string) []teamstats.TeamStatistics {
	complete := make([]fixture.Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		if f.LeagueID != leagueID || !fixture.IsCompleteStatus(f.Status) {
			continue
		}
		if err := f.Validate(); err != nil {
			continue
		}
		complete = append(complete, f)
	}
	sort.SliceStable(complete, func(i, j int) bool {
		if complete[i].KickoffUnix != complete[j].KickoffUnix {
			return complete[i].KickoffUnix < complete[j].KickoffUnix
		}
		return complete[i].ID < complete[j].ID
	})

	acc := make(map[int64]*standingsAccumulator)
	get := func(teamID int64, name string) *standingsAccumulator {
		row, ok := acc[teamID]
		if !ok {
			row = &standingsAccumulator{teamID: teamID}
			acc[teamID] = row
		}
		if preferred, ok := teamNames[teamID]; ok && preferred != "" {
			row.teamName = preferred
		} else if row.teamName == "" {
			row.teamName = name
		}
		return row
	}

	for _, f := range complete {
		home := get(f.HomeTeamID, f.HomeTeamName)
		away := get(f.AwayTeamID, f.AwayTeamName)
		applyResult(home, f, true)
		applyResult(away, f, false)
	}

	rows := make([]teamstats.TeamStatistics, 0, len(acc))
	for _, row := range acc {
		rows = append(rows, finalizeRow(leagueID, seasonID, seasonYear, row))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		if a.Overall.GoalsFor != b.Overall.GoalsFor {
			return a.Overall.GoalsFor > b.Overall.GoalsFor
		}
		if a.TeamName != b.TeamName {
			return a.TeamName < b.TeamName
		}
		return a.TeamID < b.TeamID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func applyResult(row *standingsAccumulator, f fixture.Fixture, isHome bool) {
	goalsFor, goalsAgainst := f.HomeGoals, f.AwayGoals
	htFor := f.HomeHTGoals
	split := &row.home
	if !isHome {
		goalsFor, goalsAgainst = f.AwayGoals, f.HomeGoals
		htFor = f.AwayHTGoals
		split = &row.away
	}

	for _, line := range []*teamstats.SplitLine{&row.overall, split} {
		line.Played++
		line.GoalsFor += goalsFor
		line.GoalsAgainst += goalsAgainst
		switch {
		case goalsFor > goalsAgainst:
			line.Wins++
		case goalsFor == goalsAgainst:
			line.Draws++
		default:
			line.Losses++
		}
	}

	switch {
	case goalsFor > goalsAgainst:
		row.points += 3
	case goalsFor == goalsAgainst:
		row.points++
	}

	if f.TotalGoals() >= 3 {
		row.over25++
	}
	if f.HomeGoals > 0 && f.AwayGoals > 0 {
		row.btts++
	}
	if goalsAgainst == 0 {
		row.cleanSheets++
	}
	if htFor > 0 {
		row.scoredFirstHalf++
	}
	if goalsFor-htFor > 0 {
		row.scoredSecondHalf++
	}

	row.played = append(row.played, f)
}

func finalizeRow(leagueID, seasonID int64, seasonYear int, row *standingsAccumulator) teamstats.TeamStatistics {
	stats := teamstats.TeamStatistics{
		TeamID:     row.teamID,
		LeagueID:   leagueID,
		SeasonID:   seasonID,
		SeasonYear: seasonYear,
		TeamName:   row.teamName,
		Overall:    row.overall,
		Home:       row.home,
		Away:       row.away,
		Points:     row.points,
		Form:       renderForm(row.teamID, row.played),
	}
	played := row.overall.Played
	stats.PointsSharePct = roundedPct(row.points, played*3)
	stats.Over25Pct = roundedPct(row.over25, played)
	stats.BTTSPct = roundedPct(row.btts, played)
	stats.CleanSheetPct = roundedPct(row.cleanSheets, played)
	stats.ScoredFirstHalfPct = roundedPct(row.scoredFirstHalf, played)
	stats.ScoredSecondHalfPct = roundedPct(row.scoredSecondHalf, played)
	return stats
}

// renderForm renders the last five complete fixtures, oldest first.
func renderForm(teamID int64, played []fixture.Fixture) string {
	start := 0
	if len(played) > 5 {
		start = len(played) - 5
	}
	out := make([]byte, 0, 5)
	for _, f := range played[start:] {
		goalsFor, goalsAgainst := f.HomeGoals, f.AwayGoals
		if f.AwayTeamID == teamID {
			goalsFor, goalsAgainst = f.AwayGoals, f.HomeGoals
		}
		switch {
		case goalsFor > goalsAgainst:
			out = append(out, 'W')
		case goalsFor == goalsAgainst:
			out = append(out, 'D')
		default:
			out = append(out, 'L')
		}
	}
	return string(out)
}

func roundedPct(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(count) / float64(total)))
}
