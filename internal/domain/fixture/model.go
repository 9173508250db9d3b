package fixture

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusComplete  = "complete"
	StatusPostponed = "postponed"
	StatusCancelled = "cancelled"
)

// Fixture is one scheduled or played match between two teams.
type Fixture struct {
	ID           int64
	LeagueID     int64
	SeasonID     int64
	HomeTeamID   int64
	AwayTeamID   int64
	HomeTeamName string
	AwayTeamName string
	Status       string
	KickoffUnix  int64
	HomeGoals    int
	AwayGoals    int
	HomeHTGoals  int
	AwayHTGoals  int
	Venue        string
	VenueCity    string
	Referee      string
}

func (f Fixture) Kickoff() time.Time {
	if f.KickoffUnix <= 0 {
		return time.Time{}
	}
	return time.Unix(f.KickoffUnix, 0).UTC()
}

func (f Fixture) TotalGoals() int {
	return f.HomeGoals + f.AwayGoals
}

func (f Fixture) Validate() error {
	if f.ID <= 0 {
		return fmt.Errorf("fixture id is required")
	}
	if f.LeagueID <= 0 {
		return fmt.Errorf("fixture league id is required")
	}
	if f.HomeTeamID <= 0 || f.AwayTeamID <= 0 {
		return fmt.Errorf("fixture team ids are required")
	}
	if f.HomeGoals < 0 || f.AwayGoals < 0 {
		return fmt.Errorf("fixture goal counts cannot be negative")
	}
	if f.HomeHTGoals < 0 || f.AwayHTGoals < 0 {
		return fmt.Errorf("fixture halftime goal counts cannot be negative")
	}
	if f.HomeHTGoals > f.HomeGoals || f.AwayHTGoals > f.AwayGoals {
		return fmt.Errorf("fixture halftime goals cannot exceed fulltime goals")
	}
	if !IsKnownStatus(f.Status) {
		return fmt.Errorf("fixture status %q is not recognized", f.Status)
	}
	return nil
}

// NormalizeStatus collapses provider status variants onto the canonical set.
func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	switch status {
	case "", "scheduled", "notstarted", "not started":
		return StatusScheduled
	case "live", "inprogress", "in progress", "1h", "2h", "ht", "et", "p":
		return StatusLive
	case "complete", "finished", "ft", "aet", "pen":
		return StatusComplete
	case "postponed":
		return StatusPostponed
	case "cancelled", "canceled", "abandoned", "suspended":
		return StatusCancelled
	default:
		return status
	}
}

func IsKnownStatus(status string) bool {
	switch status {
	case StatusScheduled, StatusLive, StatusComplete, StatusPostponed, StatusCancelled:
		return true
	default:
		return false
	}
}

func IsLiveStatus(status string) bool {
	return NormalizeStatus(status) == StatusLive
}

func IsCompleteStatus(status string) bool {
	return NormalizeStatus(status) == StatusComplete
}

// IsAbsorbingStatus reports statuses a fixture never leaves.
func IsAbsorbingStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusPostponed, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransition enforces the monotonic status order
// scheduled -> live -> complete, with postponed/cancelled absorbing.
func CanTransition(from, to string) bool {
	from = NormalizeStatus(from)
	to = NormalizeStatus(to)
	if from == to {
		return true
	}
	if IsAbsorbingStatus(from) {
		return false
	}
	switch from {
	case StatusScheduled:
		return true
	case StatusLive:
		return to == StatusComplete || IsAbsorbingStatus(to)
	case StatusComplete:
		return false
	default:
		return false
	}
}
