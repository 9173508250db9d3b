package fixture

import "context"

type Repository interface {
	GetByID(ctx context.Context, id int64) (Fixture, bool, error)
	ListByLeague(ctx context.Context, leagueID int64) ([]Fixture, error)
	ListByLeagueSeason(ctx context.Context, leagueID, seasonID int64) ([]Fixture, error)
	UpsertMany(ctx context.Context, fixtures []Fixture) error
}
