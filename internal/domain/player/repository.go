package player

import "context"

type Repository interface {
	ListByLeagueSeason(ctx context.Context, leagueID, seasonID int64) ([]Player, error)
	UpsertMany(ctx context.Context, players []Player) error
}
