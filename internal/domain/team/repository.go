package team

import "context"

type Repository interface {
	ListByLeagueSeason(ctx context.Context, leagueID, seasonID int64) ([]Team, error)
	UpsertMany(ctx context.Context, teams []Team) error
}
