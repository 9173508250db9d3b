package usecase

import (
	"github.com/futstats/campeonatos/internal/domain/fixture"
)

// FixtureChange is the outcome of comparing an incoming fixture against the
// stored one. Persist means write it; Material means subscribers care.
type FixtureChange struct {
	Persist  bool
	Material bool
	Created  bool
}

// DetectFixtureChange decides whether the incoming fixture should be written
// and whether the difference is material (score, status, kickoff) or cosmetic
// (venue, referee, display names). Incoming is assumed validated and
// status-normalized. A status regression keeps the stored record untouched.
func DetectFixtureChange(existing *fixture.Fixture, incoming fixture.Fixture) FixtureChange {
	if existing == nil {
		return FixtureChange{Persist: true, Material: true, Created: true}
	}
	if !fixture.CanTransition(existing.Status, incoming.Status) {
		return FixtureChange{}
	}
	if *existing == incoming {
		return FixtureChange{}
	}

	material := existing.Status != incoming.Status ||
		existing.HomeGoals != incoming.HomeGoals ||
		existing.AwayGoals != incoming.AwayGoals ||
		existing.HomeHTGoals != incoming.HomeHTGoals ||
		existing.AwayHTGoals != incoming.AwayHTGoals ||
		existing.KickoffUnix != incoming.KickoffUnix

	return FixtureChange{Persist: true, Material: material}
}
