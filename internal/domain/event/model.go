package event

import "time"

const (
	KindStandingsUpdated = "standings_updated"
	KindFixtureCreated   = "fixture_created"
	KindFixtureUpdated   = "fixture_updated"
	KindTopScorerUpdated = "top_scorer_updated"
)

func IsKnownKind(kind string) bool {
	switch kind {
	case KindStandingsUpdated, KindFixtureCreated, KindFixtureUpdated, KindTopScorerUpdated:
		return true
	default:
		return false
	}
}

// Event is a material change produced by a collection cycle. ID is the
// delivery dedup identifier; a redelivered event keeps the same ID.
type Event struct {
	ID         string
	Kind       string
	LeagueID   int64
	Data       map[string]any
	OccurredAt time.Time
}
