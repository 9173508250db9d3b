package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/futstats/campeonatos/internal/domain/fixture"
)

type FixtureRepository struct {
	mu       sync.RWMutex
	fixtures map[int64]fixture.Fixture
}

func NewFixtureRepository(seed []fixture.Fixture) *FixtureRepository {
	fixtures := make(map[int64]fixture.Fixture, len(seed))
	for _, item := range seed {
		fixtures[item.ID] = item
	}
	return &FixtureRepository{fixtures: fixtures}
}

func (r *FixtureRepository) GetByID(_ context.Context, id int64) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.fixtures[id]
	return item, ok, nil
}

func (r *FixtureRepository) ListByLeague(_ context.Context, leagueID int64) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0, len(r.fixtures))
	for _, item := range r.fixtures {
		if item.LeagueID == leagueID {
			out = append(out, item)
		}
	}
	sortFixtures(out)
	return out, nil
}

func (r *FixtureRepository) ListByLeagueSeason(_ context.Context, leagueID, seasonID int64) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0, len(r.fixtures))
	for _, item := range r.fixtures {
		if item.LeagueID == leagueID && item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sortFixtures(out)
	return out, nil
}

func (r *FixtureRepository) UpsertMany(_ context.Context, fixtures []fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range fixtures {
		r.fixtures[item.ID] = item
	}
	return nil
}

func sortFixtures(items []fixture.Fixture) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].KickoffUnix != items[j].KickoffUnix {
			return items[i].KickoffUnix < items[j].KickoffUnix
		}
		return items[i].ID < items[j].ID
	})
}
