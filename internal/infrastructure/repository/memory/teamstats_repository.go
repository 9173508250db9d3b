package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/futstats/campeonatos/internal/domain/teamstats"
)

type leagueSeasonKey struct {
	leagueID int64
	seasonID int64
}

type TeamStatsRepository struct {
	mu   sync.RWMutex
	rows map[leagueSeasonKey][]teamstats.TeamStatistics
}

func NewTeamStatsRepository() *TeamStatsRepository {
	return &TeamStatsRepository{rows: make(map[leagueSeasonKey][]teamstats.TeamStatistics)}
}

func (r *TeamStatsRepository) ListByLeagueSeason(_ context.Context, leagueID, seasonID int64) ([]teamstats.TeamStatistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.rows[leagueSeasonKey{leagueID, seasonID}]
	out := make([]teamstats.TeamStatistics, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}

func (r *TeamStatsRepository) ReplaceByLeagueSeason(_ context.Context, leagueID, seasonID int64, rows []teamstats.TeamStatistics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]teamstats.TeamStatistics, len(rows))
	copy(stored, rows)
	r.rows[leagueSeasonKey{leagueID, seasonID}] = stored
	return nil
}
