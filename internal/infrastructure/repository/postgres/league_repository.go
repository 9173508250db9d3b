package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futstats/campeonatos/internal/domain/league"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByID(ctx context.Context, id int64) (league.League, bool, error) {
	var row leagueTableModel
	err := r.db.GetContext(ctx, &row,
		`SELECT id, name, country, image_url, season_id, season_year FROM leagues WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("select league by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	var rows []leagueTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, name, country, image_url, season_id, season_year FROM leagues ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}
	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *LeagueRepository) Upsert(ctx context.Context, lg league.League) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO leagues (id, name, country, image_url, season_id, season_year)
		VALUES (:id, :name, :country, :image_url, :season_id, :season_year)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			country = EXCLUDED.country,
			image_url = EXCLUDED.image_url,
			season_id = EXCLUDED.season_id,
			season_year = EXCLUDED.season_year,
			updated_at = now()`,
		leagueModelFromDomain(lg))
	if err != nil {
		return fmt.Errorf("upsert league: %w", err)
	}
	return nil
}
