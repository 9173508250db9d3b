package postgres

import (
	"github.com/futstats/campeonatos/internal/domain/team"
)

type teamTableModel struct {
	ID        int64  `db:"id"`
	LeagueID  int64  `db:"league_id"`
	SeasonID  int64  `db:"season_id"`
	Name      string `db:"name"`
	CleanName string `db:"clean_name"`
	ShortHand string `db:"short_hand"`
	Country   string `db:"country"`
	ImageURL  string `db:"image_url"`
	URL       string `db:"url"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:        m.ID,
		LeagueID:  m.LeagueID,
		SeasonID:  m.SeasonID,
		Name:      m.Name,
		CleanName: m.CleanName,
		ShortHand: m.ShortHand,
		Country:   m.Country,
		ImageURL:  m.ImageURL,
		URL:       m.URL,
	}
}

func teamModelFromDomain(t team.Team) teamTableModel {
	return teamTableModel{
		ID:        t.ID,
		LeagueID:  t.LeagueID,
		SeasonID:  t.SeasonID,
		Name:      t.Name,
		CleanName: t.CleanName,
		ShortHand: t.ShortHand,
		Country:   t.Country,
		ImageURL:  t.ImageURL,
		URL:       t.URL,
	}
}
