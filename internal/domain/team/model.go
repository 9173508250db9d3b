package team

import (
	"fmt"
	"strings"
)

// Team is a club participating in a league season.
type Team struct {
	ID        int64
	LeagueID  int64
	SeasonID  int64
	Name      string
	CleanName string
	ShortHand string
	Country   string
	ImageURL  string
	URL       string
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id is required")
	}
	if t.LeagueID <= 0 {
		return fmt.Errorf("team league id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}

// Equal reports metadata equality; used to skip no-op writes.
func (t Team) Equal(other Team) bool {
	return t == other
}
