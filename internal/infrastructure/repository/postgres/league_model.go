package postgres

import (
	"github.com/futstats/campeonatos/internal/domain/league"
)

type leagueTableModel struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	Country    string `db:"country"`
	ImageURL   string `db:"image_url"`
	SeasonID   int64  `db:"season_id"`
	SeasonYear int    `db:"season_year"`
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:         m.ID,
		Name:       m.Name,
		Country:    m.Country,
		ImageURL:   m.ImageURL,
		SeasonID:   m.SeasonID,
		SeasonYear: m.SeasonYear,
	}
}

func leagueModelFromDomain(lg league.League) leagueTableModel {
	return leagueTableModel{
		ID:         lg.ID,
		Name:       lg.Name,
		Country:    lg.Country,
		ImageURL:   lg.ImageURL,
		SeasonID:   lg.SeasonID,
		SeasonYear: lg.SeasonYear,
	}
}
