package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futstats/campeonatos/internal/domain/fixture"
)

const fixtureColumns = `id, league_id, season_id, home_team_id, away_team_id,
	home_team_name, away_team_name, status, kickoff_unix,
	home_goals, away_goals, home_ht_goals, away_ht_goals,
	venue, venue_city, referee`

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) GetByID(ctx context.Context, id int64) (fixture.Fixture, bool, error) {
	var row fixtureTableModel
	err := r.db.GetContext(ctx, &row,
		`SELECT `+fixtureColumns+` FROM fixtures WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("select fixture by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *FixtureRepository) ListByLeague(ctx context.Context, leagueID int64) ([]fixture.Fixture, error) {
	var rows []fixtureTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+fixtureColumns+` FROM fixtures WHERE league_id = $1 ORDER BY kickoff_unix, id`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("select fixtures by league: %w", err)
	}
	return fixtureRowsToDomain(rows), nil
}

func (r *FixtureRepository) ListByLeagueSeason(ctx context.Context, leagueID, seasonID int64) ([]fixture.Fixture, error) {
	var rows []fixtureTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+fixtureColumns+` FROM fixtures WHERE league_id = $1 AND season_id = $2 ORDER BY kickoff_unix, id`,
		leagueID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("select fixtures by league season: %w", err)
	}
	return fixtureRowsToDomain(rows), nil
}

// UpsertMany writes the detected changes of one cycle in a single
// transaction.
func (r *FixtureRepository) UpsertMany(ctx context.Context, fixtures []fixture.Fixture) error {
	if len(fixtures) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin fixtures upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, item := range fixtures {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO fixtures (id, league_id, season_id, home_team_id, away_team_id,
				home_team_name, away_team_name, status, kickoff_unix,
				home_goals, away_goals, home_ht_goals, away_ht_goals,
				venue, venue_city, referee)
			VALUES (:id, :league_id, :season_id, :home_team_id, :away_team_id,
				:home_team_name, :away_team_name, :status, :kickoff_unix,
				:home_goals, :away_goals, :home_ht_goals, :away_ht_goals,
				:venue, :venue_city, :referee)
			ON CONFLICT (id) DO UPDATE SET
				league_id = EXCLUDED.league_id,
				season_id = EXCLUDED.season_id,
				home_team_id = EXCLUDED.home_team_id,
				away_team_id = EXCLUDED.away_team_id,
				home_team_name = EXCLUDED.home_team_name,
				away_team_name = EXCLUDED.away_team_name,
				status = EXCLUDED.status,
				kickoff_unix = EXCLUDED.kickoff_unix,
				home_goals = EXCLUDED.home_goals,
				away_goals = EXCLUDED.away_goals,
				home_ht_goals = EXCLUDED.home_ht_goals,
				away_ht_goals = EXCLUDED.away_ht_goals,
				venue = EXCLUDED.venue,
				venue_city = EXCLUDED.venue_city,
				referee = EXCLUDED.referee,
				updated_at = now()`,
			fixtureModelFromDomain(item))
		if err != nil {
			return fmt.Errorf("upsert fixture %d: %w", item.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fixtures upsert: %w", err)
	}
	return nil
}

func fixtureRowsToDomain(rows []fixtureTableModel) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
