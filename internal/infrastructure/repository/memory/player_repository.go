package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/futstats/campeonatos/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[int64]player.Player
}

func NewPlayerRepository(seed []player.Player) *PlayerRepository {
	players := make(map[int64]player.Player, len(seed))
	for _, item := range seed {
		players[item.ID] = item
	}
	return &PlayerRepository{players: players}
}

func (r *PlayerRepository) ListByLeagueSeason(_ context.Context, leagueID, seasonID int64) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.players))
	for _, item := range r.players {
		if item.LeagueID == leagueID && item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PlayerRepository) UpsertMany(_ context.Context, players []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range players {
		r.players[item.ID] = item
	}
	return nil
}
