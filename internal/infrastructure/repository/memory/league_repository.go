package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/futstats/campeonatos/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	leagues map[int64]league.League
}

func NewLeagueRepository(seed []league.League) *LeagueRepository {
	leagues := make(map[int64]league.League, len(seed))
	for _, item := range seed {
		leagues[item.ID] = item
	}
	return &LeagueRepository{leagues: leagues}
}

func (r *LeagueRepository) GetByID(_ context.Context, id int64) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.leagues[id]
	return item, ok, nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.leagues))
	for _, item := range r.leagues {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LeagueRepository) Upsert(_ context.Context, lg league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leagues[lg.ID] = lg
	return nil
}
