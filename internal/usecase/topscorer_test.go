package usecase

import (
	"testing"

	"github.com/futstats/campeonatos/internal/domain/player"
)

func scorer(id int64, name string, goals, assists int) player.Player {
	return player.Player{ID: id, LeagueID: 1, SeasonID: 100, Name: name, Goals: goals, Assists: assists}
}

func TestComputeTopScorersOrdering(t *testing.T) {
	t.Parallel()

	players := []player.Player{
		scorer(1, "Nuno", 7, 2),
		scorer(2, "Bruno", 9, 1),
		scorer(3, "Andre", 7, 5),
		scorer(4, "Carlos", 7, 5),
		scorer(5, "Keeper", 0, 0),
		scorer(6, "Provider", 0, 4),
	}

	table := ComputeTopScorers(players, 10)

	wantOrder := []int64{2, 3, 4, 1, 6}
	if len(table) != len(wantOrder) {
		t.Fatalf("table size = %d, want %d", len(table), len(wantOrder))
	}
	for i, wantID := range wantOrder {
		if table[i].ID != wantID {
			t.Errorf("position %d: player %d, want %d", i, table[i].ID, wantID)
		}
	}
}

func TestComputeTopScorersTruncates(t *testing.T) {
	t.Parallel()

	players := []player.Player{
		scorer(1, "A", 5, 0),
		scorer(2, "B", 4, 0),
		scorer(3, "C", 3, 0),
	}

	table := ComputeTopScorers(players, 2)
	if len(table) != 2 {
		t.Fatalf("table size = %d, want 2", len(table))
	}
	if table[0].ID != 1 || table[1].ID != 2 {
		t.Fatalf("unexpected table %v", table)
	}
}

func TestTopScorerChanged(t *testing.T) {
	t.Parallel()

	base := []player.Player{scorer(1, "A", 5, 0)}

	cases := []struct {
		name     string
		previous []player.Player
		current  []player.Player
		want     bool
	}{
		{"empty current never fires", base, nil, false},
		{"first scorer fires", nil, base, true},
		{"same leader same goals", base, []player.Player{scorer(1, "A", 5, 1)}, false},
		{"same leader more goals", base, []player.Player{scorer(1, "A", 6, 0)}, true},
		{"new leader", base, []player.Player{scorer(2, "B", 5, 0)}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := TopScorerChanged(tc.previous, tc.current); got != tc.want {
				t.Fatalf("TopScorerChanged = %v, want %v", got, tc.want)
			}
		})
	}
}
