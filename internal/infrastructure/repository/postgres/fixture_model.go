package postgres

import (
	"github.com/futstats/campeonatos/internal/domain/fixture"
)

type fixtureTableModel struct {
	ID           int64  `db:"id"`
	LeagueID     int64  `db:"league_id"`
	SeasonID     int64  `db:"season_id"`
	HomeTeamID   int64  `db:"home_team_id"`
	AwayTeamID   int64  `db:"away_team_id"`
	HomeTeamName string `db:"home_team_name"`
	AwayTeamName string `db:"away_team_name"`
	Status       string `db:"status"`
	KickoffUnix  int64  `db:"kickoff_unix"`
	HomeGoals    int    `db:"home_goals"`
	AwayGoals    int    `db:"away_goals"`
	HomeHTGoals  int    `db:"home_ht_goals"`
	AwayHTGoals  int    `db:"away_ht_goals"`
	Venue        string `db:"venue"`
	VenueCity    string `db:"venue_city"`
	Referee      string `db:"referee"`
}

func (m fixtureTableModel) toDomain() fixture.Fixture {
	return fixture.Fixture{
		ID:           m.ID,
		LeagueID:     m.LeagueID,
		SeasonID:     m.SeasonID,
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		HomeTeamName: m.HomeTeamName,
		AwayTeamName: m.AwayTeamName,
		Status:       m.Status,
		KickoffUnix:  m.KickoffUnix,
		HomeGoals:    m.HomeGoals,
		AwayGoals:    m.AwayGoals,
		HomeHTGoals:  m.HomeHTGoals,
		AwayHTGoals:  m.AwayHTGoals,
		Venue:        m.Venue,
		VenueCity:    m.VenueCity,
		Referee:      m.Referee,
	}
}

func fixtureModelFromDomain(f fixture.Fixture) fixtureTableModel {
	return fixtureTableModel{
		ID:           f.ID,
		LeagueID:     f.LeagueID,
		SeasonID:     f.SeasonID,
		HomeTeamID:   f.HomeTeamID,
		AwayTeamID:   f.AwayTeamID,
		HomeTeamName: f.HomeTeamName,
		AwayTeamName: f.AwayTeamName,
		Status:       f.Status,
		KickoffUnix:  f.KickoffUnix,
		HomeGoals:    f.HomeGoals,
		AwayGoals:    f.AwayGoals,
		HomeHTGoals:  f.HomeHTGoals,
		AwayHTGoals:  f.AwayHTGoals,
		Venue:        f.Venue,
		VenueCity:    f.VenueCity,
		Referee:      f.Referee,
	}
}
