package player

import (
	"fmt"
	"strings"
)

// Player carries season-cumulative statistics for one squad member.
type Player struct {
	ID            int64
	LeagueID      int64
	SeasonID      int64
	TeamID        int64
	TeamName      string
	Name          string
	Position      string
	Nationality   string
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

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id is required")
	}
	if p.LeagueID <= 0 {
		return fmt.Errorf("player league id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Goals < 0 || p.Assists < 0 || p.Appearances < 0 {
		return fmt.Errorf("player counting stats cannot be negative")
	}
	return nil
}

// Equal reports stat-line and metadata equality; used to skip no-op writes.
func (p Player) Equal(other Player) bool {
	return p == other
}
