package usecase

import (
	"testing"

	"github.com/futstats/campeonatos/internal/domain/fixture"
)

func baseFixture() fixture.Fixture {
	return fixture.Fixture{
		ID:           77,
		LeagueID:     1,
		HomeTeamID:   10,
		AwayTeamID:   11,
		HomeTeamName: "Alfa",
		AwayTeamName: "Beta",
		Status:       fixture.StatusLive,
		KickoffUnix:  1_700_000_000,
		HomeGoals:    1,
		AwayGoals:    0,
	}
}

func TestDetectFixtureChangeCreated(t *testing.T) {
	t.Parallel()

	change := DetectFixtureChange(nil, baseFixture())
	if !change.Persist || !change.Material || !change.Created {
		t.Fatalf("expected created change, got %+v", change)
	}
}

func TestDetectFixtureChangeUnchanged(t *testing.T) {
	t.Parallel()

	existing := baseFixture()
	change := DetectFixtureChange(&existing, existing)
	if change.Persist || change.Material {
		t.Fatalf("unchanged fixture must be a no-op, got %+v", change)
	}
}

func TestDetectFixtureChangeMaterial(t *testing.T) {
	t.Parallel()

	existing := baseFixture()

	scored := existing
	scored.HomeGoals = 2
	if change := DetectFixtureChange(&existing, scored); !change.Persist || !change.Material {
		t.Fatalf("score change must be material, got %+v", change)
	}

	finished := existing
	finished.Status = fixture.StatusComplete
	if change := DetectFixtureChange(&existing, finished); !change.Persist || !change.Material {
		t.Fatalf("status change must be material, got %+v", change)
	}

	moved := existing
	moved.KickoffUnix += 3600
	if change := DetectFixtureChange(&existing, moved); !change.Persist || !change.Material {
		t.Fatalf("kickoff change must be material, got %+v", change)
	}
}

func TestDetectFixtureChangeCosmetic(t *testing.T) {
	t.Parallel()

	existing := baseFixture()
	renamed := existing
	renamed.Venue = "Estadio Nuevo"
	renamed.Referee = "J. Silva"

	change := DetectFixtureChange(&existing, renamed)
	if !change.Persist {
		t.Fatalf("cosmetic change must still persist, got %+v", change)
	}
	if change.Material {
		t.Fatalf("venue/referee change must not be material, got %+v", change)
	}
}

func TestDetectFixtureChangeStatusRegression(t *testing.T) {
	t.Parallel()

	existing := baseFixture()
	existing.Status = fixture.StatusComplete

	regressed := existing
	regressed.Status = fixture.StatusLive
	regressed.HomeGoals = 9

	change := DetectFixtureChange(&existing, regressed)
	if change.Persist || change.Material {
		t.Fatalf("status regression must keep the stored record, got %+v", change)
	}
}
