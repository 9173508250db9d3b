package usecase

import (
	"reflect"
	"testing"

	"github.com/futstats/campeonatos/internal/domain/fixture"
	"github.com/futstats/campeonatos/internal/domain/teamstats"
)

func completeFixture(id, home, away int64, hg, ag int, kickoff int64) fixture.Fixture {
	return fixture.Fixture{
		ID:          id,
		LeagueID:    1,
		SeasonID:    100,
		HomeTeamID:  home,
		AwayTeamID:  away,
		Status:      fixture.StatusComplete,
		KickoffUnix: kickoff,
		HomeGoals:   hg,
		AwayGoals:   ag,
	}
}

func TestBuildTeamStatisticsTwoFixtureScenario(t *testing.T) {
	t.Parallel()

	names := map[int64]string{10: "Alfa", 11: "Beta"}
	fixtures := []fixture.Fixture{
		completeFixture(1, 10, 11, 2, 1, 1000), // Alfa 2-1 Beta
		completeFixture(2, 11, 10, 0, 0, 2000), // Beta 0-0 Alfa
	}

	rows := BuildTeamStatistics(1, 100, 2025, fixtures, names)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	alfa := rows[0]
	if alfa.TeamID != 10 {
		t.Fatalf("expected Alfa ranked first, got team %d", alfa.TeamID)
	}
	if alfa.Overall.Played != 2 || alfa.Overall.Wins != 1 || alfa.Overall.Draws != 1 || alfa.Overall.Losses != 0 {
		t.Fatalf("unexpected Alfa tally: %+v", alfa.Overall)
	}
	if alfa.Points != 4 {
		t.Fatalf("expected Alfa on 4 points, got %d", alfa.Points)
	}
	if alfa.Overall.GoalsFor != 2 || alfa.Overall.GoalsAgainst != 1 {
		t.Fatalf("unexpected Alfa goals: %+v", alfa.Overall)
	}
	if alfa.Home.Played != 1 || alfa.Away.Played != 1 {
		t.Fatalf("unexpected Alfa splits: home %+v away %+v", alfa.Home, alfa.Away)
	}
	if alfa.Form != "WD" {
		t.Fatalf("expected Alfa form WD, got %q", alfa.Form)
	}

	beta := rows[1]
	if beta.Points != 1 || beta.Rank != 2 {
		t.Fatalf("unexpected Beta row: points %d rank %d", beta.Points, beta.Rank)
	}
}

func TestBuildTeamStatisticsTieBreakOrder(t *testing.T) {
	t.Parallel()

	names := map[int64]string{1: "Zeta", 2: "Alfa", 3: "Mira", 4: "Kilo"}
	// Zeta and Alfa finish level on points and goal difference; Alfa wins the
	// alphabetical tie-break. Mira edges both on goals-for at equal GD.
	fixtures := []fixture.Fixture{
		completeFixture(1, 1, 4, 1, 0, 1000),
		completeFixture(2, 2, 4, 1, 0, 2000),
		completeFixture(3, 3, 4, 2, 1, 3000),
	}

	rows := BuildTeamStatistics(1, 100, 2025, fixtures, names)
	got := make([]string, 0, len(rows))
	for _, r := range rows {
		got = append(got, r.TeamName)
	}
	want := []string{"Mira", "Alfa", "Zeta", "Kilo"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected ranking order: got %v want %v", got, want)
	}
}

func TestBuildTeamStatisticsDeterministic(t *testing.T) {
	t.Parallel()

	names := map[int64]string{10: "Alfa", 11: "Beta", 12: "Gama"}
	fixtures := []fixture.Fixture{
		completeFixture(1, 10, 11, 3, 1, 1000),
		completeFixture(2, 11, 12, 2, 2, 2000),
		completeFixture(3, 12, 10, 0, 1, 3000),
	}

	first := BuildTeamStatistics(1, 100, 2025, fixtures, names)
	second := BuildTeamStatistics(1, 100, 2025, fixtures, names)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("recomputation over identical input must be identical")
	}
}

func TestBuildTeamStatisticsIgnoresIncompleteAndInvalid(t *testing.T) {
	t.Parallel()

	live := completeFixture(2, 10, 11, 1, 0, 2000)
	live.Status = fixture.StatusLive
	negative := completeFixture(3, 10, 11, -1, 0, 3000)

	rows := BuildTeamStatistics(1, 100, 2025, []fixture.Fixture{
		completeFixture(1, 10, 11, 2, 0, 1000),
		live,
		negative,
	}, map[int64]string{10: "Alfa", 11: "Beta"})

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Overall.Played != 1 || rows[1].Overall.Played != 1 {
		t.Fatalf("live and invalid fixtures must not be folded: %+v", rows)
	}
}

func TestBuildTeamStatisticsExcludesTeamsWithoutCompleteFixtures(t *testing.T) {
	t.Parallel()

	scheduled := completeFixture(2, 12, 10, 0, 0, 2000)
	scheduled.Status = fixture.StatusScheduled

	rows := BuildTeamStatistics(1, 100, 2025, []fixture.Fixture{
		completeFixture(1, 10, 11, 1, 0, 1000),
		scheduled,
	}, nil)

	for _, r := range rows {
		if r.TeamID == 12 {
			t.Fatal("team with only scheduled fixtures must be excluded")
		}
	}
}

func TestBuildTeamStatisticsIndicators(t *testing.T) {
	t.Parallel()

	f1 := completeFixture(1, 10, 11, 2, 1, 1000)
	f1.HomeHTGoals = 1
	f1.AwayHTGoals = 1
	f2 := completeFixture(2, 11, 10, 0, 2, 2000)
	f2.AwayHTGoals = 0 // both goals after the break

	rows := BuildTeamStatistics(1, 100, 2025, []fixture.Fixture{f1, f2}, map[int64]string{10: "Alfa", 11: "Beta"})
	alfa := rows[0]
	if alfa.TeamID != 10 {
		t.Fatalf("expected Alfa first, got %d", alfa.TeamID)
	}
	if alfa.PointsSharePct != 100 {
		t.Fatalf("expected full points share, got %d", alfa.PointsSharePct)
	}
	if alfa.Over25Pct != 50 {
		t.Fatalf("expected over-2.5 rate 50, got %d", alfa.Over25Pct)
	}
	if alfa.BTTSPct != 50 {
		t.Fatalf("expected BTTS rate 50, got %d", alfa.BTTSPct)
	}
	if alfa.CleanSheetPct != 50 {
		t.Fatalf("expected clean-sheet rate 50, got %d", alfa.CleanSheetPct)
	}
	if alfa.ScoredFirstHalfPct != 50 || alfa.ScoredSecondHalfPct != 100 {
		t.Fatalf("unexpected half-scoring rates: %d / %d", alfa.ScoredFirstHalfPct, alfa.ScoredSecondHalfPct)
	}
	if alfa.Form != "WW" {
		t.Fatalf("expected form WW, got %q", alfa.Form)
	}

	var zero teamstats.SplitLine
	if alfa.Home == zero || alfa.Away == zero {
		t.Fatalf("expected both splits populated: home %+v away %+v", alfa.Home, alfa.Away)
	}
}
