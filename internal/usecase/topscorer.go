package usecase

import (
	"sort"

	"github.com/futstats/campeonatos/internal/domain/player"
)

// DefaultTopScorerLimit caps the scorer table size.
const DefaultTopScorerLimit = 20

// ComputeTopScorers orders players by goals, then assists, then name for a
// stable table, and truncates to limit. Players without a goal or assist are
// dropped.
func ComputeTopScorers(players []player.Player, limit int) []player.Player {
	if limit <= 0 {
		limit = DefaultTopScorerLimit
	}
	table := make([]player.Player, 0, len(players))
	for _, p := range players {
		if p.Goals > 0 || p.Assists > 0 {
			table = append(table, p)
		}
	}
	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Goals != b.Goals {
			return a.Goals > b.Goals
		}
		if a.Assists != b.Assists {
			return a.Assists > b.Assists
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	if len(table) > limit {
		table = table[:limit]
	}
	return table
}

// TopScorerChanged reports whether the leading entry moved: a different
// player on top, or the same player on a new goal count.
func TopScorerChanged(previous, current []player.Player) bool {
	if len(current) == 0 {
		return false
	}
	if len(previous) == 0 {
		return true
	}
	return previous[0].ID != current[0].ID || previous[0].Goals != current[0].Goals
}
