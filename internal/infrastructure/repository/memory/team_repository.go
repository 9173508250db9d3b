package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/futstats/campeonatos/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams map[int64]team.Team
}

func NewTeamRepository(seed []team.Team) *TeamRepository {
	teams := make(map[int64]team.Team, len(seed))
	for _, item := range seed {
		teams[item.ID] = item
	}
	return &TeamRepository{teams: teams}
}

func (r *TeamRepository) ListByLeagueSeason(_ context.Context, leagueID, seasonID int64) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	for _, item := range r.teams {
		if item.LeagueID == leagueID && item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) UpsertMany(_ context.Context, teams []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range teams {
		r.teams[item.ID] = item
	}
	return nil
}
