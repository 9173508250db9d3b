package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futstats/campeonatos/internal/domain/teamstats"
)

type TeamStatsRepository struct {
	db *sqlx.DB
}

func NewTeamStatsRepository(db *sqlx.DB) *TeamStatsRepository {
	return &TeamStatsRepository{db: db}
}

func (r *TeamStatsRepository) ListByLeagueSeason(ctx context.Context, leagueID, seasonID int64) ([]teamstats.TeamStatistics, error) {
	var rows []teamStatsTableModel
	err := r.db.SelectContext(ctx, &rows, `
		SELECT team_id, league_id, season_id, season_year, team_name,
			played, wins, draws, losses, goals_for, goals_against,
			home_played, home_wins, home_draws, home_losses, home_goals_for, home_goals_against,
			away_played, away_wins, away_draws, away_losses, away_goals_for, away_goals_against,
			points, rank, form,
			points_share_pct, over25_pct, btts_pct, clean_sheet_pct,
			scored_first_half_pct, scored_second_half_pct
		FROM team_statistics
		WHERE league_id = $1 AND season_id = $2
		ORDER BY rank`, leagueID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("select team statistics: %w", err)
	}
	out := make([]teamstats.TeamStatistics, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// ReplaceByLeagueSeason swaps the full standings set in one transaction, so
// readers never see a partially recomputed table.
func (r *TeamStatsRepository) ReplaceByLeagueSeason(ctx context.Context, leagueID, seasonID int64, rows []teamstats.TeamStatistics) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin standings replacement: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM team_statistics WHERE league_id = $1 AND season_id = $2`, leagueID, seasonID); err != nil {
		return fmt.Errorf("clear standings: %w", err)
	}
	for _, item := range rows {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO team_statistics (team_id, league_id, season_id, season_year, team_name,
				played, wins, draws, losses, goals_for, goals_against,
				home_played, home_wins, home_draws, home_losses, home_goals_for, home_goals_against,
				away_played, away_wins, away_draws, away_losses, away_goals_for, away_goals_against,
				points, rank, form,
				points_share_pct, over25_pct, btts_pct, clean_sheet_pct,
				scored_first_half_pct, scored_second_half_pct)
			VALUES (:team_id, :league_id, :season_id, :season_year, :team_name,
				:played, :wins, :draws, :losses, :goals_for, :goals_against,
				:home_played, :home_wins, :home_draws, :home_losses, :home_goals_for, :home_goals_against,
				:away_played, :away_wins, :away_draws, :away_losses, :away_goals_for, :away_goals_against,
				:points, :rank, :form,
				:points_share_pct, :over25_pct, :btts_pct, :clean_sheet_pct,
				:scored_first_half_pct, :scored_second_half_pct)`,
			teamStatsModelFromDomain(item))
		if err != nil {
			return fmt.Errorf("insert standings row team %d: %w", item.TeamID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit standings replacement: %w", err)
	}
	return nil
}
