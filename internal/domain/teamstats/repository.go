package teamstats

import "context"

type Repository interface {
	ListByLeagueSeason(ctx context.Context, leagueID, seasonID int64) ([]TeamStatistics, error)
	// ReplaceByLeagueSeason swaps the league season's full standings set in one
	// transaction.
	ReplaceByLeagueSeason(ctx context.Context, leagueID, seasonID int64, rows []TeamStatistics) error
}
