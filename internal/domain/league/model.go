package league

import (
	"fmt"
	"strings"
)

// League is a tracked competition with its current season pointer.
type League struct {
	ID         int64
	Name       string
	Country    string
	ImageURL   string
	SeasonID   int64
	SeasonYear int
}

func (l League) Validate() error {
	if l.ID <= 0 {
		return fmt.Errorf("league id is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("league name is required")
	}
	if l.SeasonID <= 0 {
		return fmt.Errorf("league season id is required")
	}
	return nil
}

// CanAdvanceSeason reports whether the stored season pointer may move to the
// candidate season. The pointer never regresses to a lower year.
func (l League) CanAdvanceSeason(seasonID int64, seasonYear int) bool {
	if seasonID <= 0 {
		return false
	}
	if seasonID == l.SeasonID {
		return false
	}
	return seasonYear >= l.SeasonYear
}
