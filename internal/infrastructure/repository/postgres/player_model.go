package postgres

import (
	"github.com/futstats/campeonatos/internal/domain/player"
)

type playerTableModel struct {
	ID            int64  `db:"id"`
	LeagueID      int64  `db:"league_id"`
	SeasonID      int64  `db:"season_id"`
	TeamID        int64  `db:"team_id"`
	TeamName      string `db:"team_name"`
	Name          string `db:"name"`
	Position      string `db:"position"`
	Nationality   string `db:"nationality"`
	Goals         int    `db:"goals"`
	Assists       int    `db:"assists"`
	Appearances   int    `db:"appearances"`
	MinutesPlayed int    `db:"minutes_played"`
	CleanSheets   int    `db:"clean_sheets"`
	YellowCards   int    `db:"yellow_cards"`
	RedCards      int    `db:"red_cards"`
	PhotoURL      string `db:"photo_url"`
	ProfileURL    string `db:"profile_url"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:            m.ID,
		LeagueID:      m.LeagueID,
		SeasonID:      m.SeasonID,
		TeamID:        m.TeamID,
		TeamName:      m.TeamName,
		Name:          m.Name,
		Position:      m.Position,
		Nationality:   m.Nationality,
		Goals:         m.Goals,
		Assists:       m.Assists,
		Appearances:   m.Appearances,
		MinutesPlayed: m.MinutesPlayed,
		CleanSheets:   m.CleanSheets,
		YellowCards:   m.YellowCards,
		RedCards:      m.RedCards,
		PhotoURL:      m.PhotoURL,
		ProfileURL:    m.ProfileURL,
	}
}

func playerModelFromDomain(p player.Player) playerTableModel {
	return playerTableModel{
		ID:            p.ID,
		LeagueID:      p.LeagueID,
		SeasonID:      p.SeasonID,
		TeamID:        p.TeamID,
		TeamName:      p.TeamName,
		Name:          p.Name,
		Position:      p.Position,
		Nationality:   p.Nationality,
		Goals:         p.Goals,
		Assists:       p.Assists,
		Appearances:   p.Appearances,
		MinutesPlayed: p.MinutesPlayed,
		CleanSheets:   p.CleanSheets,
		YellowCards:   p.YellowCards,
		RedCards:      p.RedCards,
		PhotoURL:      p.PhotoURL,
		ProfileURL:    p.ProfileURL,
	}
}
