package usecase

import "context"

// External* types are the provider-facing shapes. The footystats client maps
// wire payloads into these; use cases map them onto the canonical domain.

type ExternalSeason struct {
	ID   int64
	Year int
}

type ExternalLeague struct {
	ID       int64
	Name     string
	Country  string
	ImageURL string
	Seasons  []ExternalSeason
}

type ExternalTeam struct {
	ID        int64
	Name      string
	CleanName string
	ShortHand string
	Country   string
	ImageURL  string
	URL       string
}

type ExternalMatch struct {
	ID          int64
	HomeTeamID  int64
	AwayTeamID  int64
	HomeName    string
	AwayName    string
	Status      string
	DateUnix    int64
	HomeGoals   int
	AwayGoals   int
	HomeHTGoals int
	AwayHTGoals int
	Stadium     string
	StadiumCity string
	Referee     string
}

type ExternalPlayer struct {
	ID            int64
	Name          string
	Position      string
	Nationality   string
	TeamID        int64
	TeamName      string
	Goals         int
	Assists       int
	Appearances   int
	MinutesPlayed int
	CleanSheets   int
	YellowCards   int
	RedCards      int
	PhotoURL      string
	ProfileURL    string
}

// CompetitionProvider is the upstream data source. Implementations are
// expected to rate-limit, retry and normalize transport failures onto
// ErrDependencyUnavailable.
type CompetitionProvider interface {
	FetchLeagues(ctx context.Context) ([]ExternalLeague, error)
	FetchTeams(ctx context.Context, seasonID int64) ([]ExternalTeam, error)
	FetchMatches(ctx context.Context, seasonID int64) ([]ExternalMatch, error)
	// FetchPlayers returns one page plus whether more pages remain.
	FetchPlayers(ctx context.Context, seasonID int64, page int) ([]ExternalPlayer, bool, error)
}
