package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futstats/campeonatos/internal/domain/team"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListByLeagueSeason(ctx context.Context, leagueID, seasonID int64) ([]team.Team, error) {
	var rows []teamTableModel
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, league_id, season_id, name, clean_name, short_hand, country, image_url, url
		FROM teams
		WHERE league_id = $1 AND season_id = $2
		ORDER BY id`, leagueID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("select teams by league season: %w", err)
	}
	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// UpsertMany writes the batch in one transaction so a partial snapshot never
// becomes visible.
func (r *TeamRepository) UpsertMany(ctx context.Context, teams []team.Team) error {
	if len(teams) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin teams upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, item := range teams {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO teams (id, league_id, season_id, name, clean_name, short_hand, country, image_url, url)
			VALUES (:id, :league_id, :season_id, :name, :clean_name, :short_hand, :country, :image_url, :url)
			ON CONFLICT (id) DO UPDATE SET
				league_id = EXCLUDED.league_id,
				season_id = EXCLUDED.season_id,
				name = EXCLUDED.name,
				clean_name = EXCLUDED.clean_name,
				short_hand = EXCLUDED.short_hand,
				country = EXCLUDED.country,
				image_url = EXCLUDED.image_url,
				url = EXCLUDED.url,
				updated_at = now()`,
			teamModelFromDomain(item))
		if err != nil {
			return fmt.Errorf("upsert team %d: %w", item.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit teams upsert: %w", err)
	}
	return nil
}
