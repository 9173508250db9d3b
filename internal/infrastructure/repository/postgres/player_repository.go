package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futstats/campeonatos/internal/domain/player"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) ListByLeagueSeason(ctx context.Context, leagueID, seasonID int64) ([]player.Player, error) {
	var rows []playerTableModel
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, league_id, season_id, team_id, team_name, name, position, nationality,
			goals, assists, appearances, minutes_played, clean_sheets,
			yellow_cards, red_cards, photo_url, profile_url
		FROM players
		WHERE league_id = $1 AND season_id = $2
		ORDER BY id`, leagueID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("select players by league season: %w", err)
	}
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PlayerRepository) UpsertMany(ctx context.Context, players []player.Player) error {
	if len(players) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin players upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, item := range players {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO players (id, league_id, season_id, team_id, team_name, name, position,
				nationality, goals, assists, appearances, minutes_played, clean_sheets,
				yellow_cards, red_cards, photo_url, profile_url)
			VALUES (:id, :league_id, :season_id, :team_id, :team_name, :name, :position,
				:nationality, :goals, :assists, :appearances, :minutes_played, :clean_sheets,
				:yellow_cards, :red_cards, :photo_url, :profile_url)
			ON CONFLICT (id) DO UPDATE SET
				league_id = EXCLUDED.league_id,
				season_id = EXCLUDED.season_id,
				team_id = EXCLUDED.team_id,
				team_name = EXCLUDED.team_name,
				name = EXCLUDED.name,
				position = EXCLUDED.position,
				nationality = EXCLUDED.nationality,
				goals = EXCLUDED.goals,
				assists = EXCLUDED.assists,
				appearances = EXCLUDED.appearances,
				minutes_played = EXCLUDED.minutes_played,
				clean_sheets = EXCLUDED.clean_sheets,
				yellow_cards = EXCLUDED.yellow_cards,
				red_cards = EXCLUDED.red_cards,
				photo_url = EXCLUDED.photo_url,
				profile_url = EXCLUDED.profile_url,
				updated_at = now()`,
			playerModelFromDomain(item))
		if err != nil {
			return fmt.Errorf("upsert player %d: %w", item.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit players upsert: %w", err)
	}
	return nil
}
