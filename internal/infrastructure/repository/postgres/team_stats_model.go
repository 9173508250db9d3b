package postgres

import (
	"github.com/futstats/campeonatos/internal/domain/teamstats"
)

type teamStatsTableModel struct {
	TeamID     int64  `db:"team_id"`
	LeagueID   int64  `db:"league_id"`
	SeasonID   int64  `db:"season_id"`
	SeasonYear int    `db:"season_year"`
	TeamName   string `db:"team_name"`

	Played       int `db:"played"`
	Wins         int `db:"wins"`
	Draws        int `db:"draws"`
	Losses       int `db:"losses"`
	GoalsFor     int `db:"goals_for"`
	GoalsAgainst int `db:"goals_against"`

	HomePlayed       int `db:"home_played"`
	HomeWins         int `db:"home_wins"`
	HomeDraws        int `db:"home_draws"`
	HomeLosses       int `db:"home_losses"`
	HomeGoalsFor     int `db:"home_goals_for"`
	HomeGoalsAgainst int `db:"home_goals_against"`

	AwayPlayed       int `db:"away_played"`
	AwayWins         int `db:"away_wins"`
	AwayDraws        int `db:"away_draws"`
	AwayLosses       int `db:"away_losses"`
	AwayGoalsFor     int `db:"away_goals_for"`
	AwayGoalsAgainst int `db:"away_goals_against"`

	Points int    `db:"points"`
	Rank   int    `db:"rank"`
	Form   string `db:"form"`

	PointsSharePct      int `db:"points_share_pct"`
	Over25Pct           int `db:"over25_pct"`
	BTTSPct             int `db:"btts_pct"`
	CleanSheetPct       int `db:"clean_sheet_pct"`
	ScoredFirstHalfPct  int `db:"scored_first_half_pct"`
	ScoredSecondHalfPct int `db:"scored_second_half_pct"`
}

func (m teamStatsTableModel) toDomain() teamstats.TeamStatistics {
	return teamstats.TeamStatistics{
		TeamID:     m.TeamID,
		LeagueID:   m.LeagueID,
		SeasonID:   m.SeasonID,
		SeasonYear: m.SeasonYear,
		TeamName:   m.TeamName,
		Overall: teamstats.SplitLine{
			Played: m.Played, Wins: m.Wins, Draws: m.Draws, Losses: m.Losses,
			GoalsFor: m.GoalsFor, GoalsAgainst: m.GoalsAgainst,
		},
		Home: teamstats.SplitLine{
			Played: m.HomePlayed, Wins: m.HomeWins, Draws: m.HomeDraws, Losses: m.HomeLosses,
			GoalsFor: m.HomeGoalsFor, GoalsAgainst: m.HomeGoalsAgainst,
		},
		Away: teamstats.SplitLine{
			Played: m.AwayPlayed, Wins: m.AwayWins, Draws: m.AwayDraws, Losses: m.AwayLosses,
			GoalsFor: m.AwayGoalsFor, GoalsAgainst: m.AwayGoalsAgainst,
		},
		Points:              m.Points,
		Rank:                m.Rank,
		Form:                m.Form,
		PointsSharePct:      m.PointsSharePct,
		Over25Pct:           m.Over25Pct,
		BTTSPct:             m.BTTSPct,
		CleanSheetPct:       m.CleanSheetPct,
		ScoredFirstHalfPct:  m.ScoredFirstHalfPct,
		ScoredSecondHalfPct: m.ScoredSecondHalfPct,
	}
}

func teamStatsModelFromDomain(t teamstats.TeamStatistics) teamStatsTableModel {
	return teamStatsTableModel{
		TeamID:     t.TeamID,
		LeagueID:   t.LeagueID,
		SeasonID:   t.SeasonID,
		SeasonYear: t.SeasonYear,
		TeamName:   t.TeamName,

		Played: t.Overall.Played, Wins: t.Overall.Wins, Draws: t.Overall.Draws,
		Losses: t.Overall.Losses, GoalsFor: t.Overall.GoalsFor, GoalsAgainst: t.Overall.GoalsAgainst,

		HomePlayed: t.Home.Played, HomeWins: t.Home.Wins, HomeDraws: t.Home.Draws,
		HomeLosses: t.Home.Losses, HomeGoalsFor: t.Home.GoalsFor, HomeGoalsAgainst: t.Home.GoalsAgainst,

		AwayPlayed: t.Away.Played, AwayWins: t.Away.Wins, AwayDraws: t.Away.Draws,
		AwayLosses: t.Away.Losses, AwayGoalsFor: t.Away.GoalsFor, AwayGoalsAgainst: t.Away.GoalsAgainst,

		Points: t.Points,
		Rank:   t.Rank,
		Form:   t.Form,

		PointsSharePct:      t.PointsSharePct,
		Over25Pct:           t.Over25Pct,
		BTTSPct:             t.BTTSPct,
		CleanSheetPct:       t.CleanSheetPct,
		ScoredFirstHalfPct:  t.ScoredFirstHalfPct,
		ScoredSecondHalfPct: t.ScoredSecondHalfPct,
	}
}
