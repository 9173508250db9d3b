package fixture

import "testing"

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":            StatusScheduled,
		"notstarted":  StatusScheduled,
		"Scheduled":   StatusScheduled,
		"1h":          StatusLive,
		"HT":          StatusLive,
		"et":          StatusLive,
		"inprogress":  StatusLive,
		"ft":          StatusComplete,
		"Finished":    StatusComplete,
		"aet":         StatusComplete,
		"pen":         StatusComplete,
		"postponed":   StatusPostponed,
		"abandoned":   StatusCancelled,
		"canceled":    StatusCancelled,
		"mystery-tag": "mystery-tag",
	}
	for input, want := range cases {
		if got := NormalizeStatus(input); got != want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	allowed := [][2]string{
		{StatusScheduled, StatusLive},
		{StatusScheduled, StatusComplete},
		{StatusScheduled, StatusPostponed},
		{StatusLive, StatusComplete},
		{StatusLive, StatusCancelled},
		{StatusLive, StatusLive},
		{StatusComplete, StatusComplete},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Errorf("expected %s -> %s to be allowed", pair[0], pair[1])
		}
	}

	denied := [][2]string{
		{StatusComplete, StatusLive},
		{StatusComplete, StatusScheduled},
		{StatusLive, StatusScheduled},
		{StatusPostponed, StatusLive},
		{StatusCancelled, StatusComplete},
	}
	for _, pair := range denied {
		if CanTransition(pair[0], pair[1]) {
			t.Errorf("expected %s -> %s to be rejected", pair[0], pair[1])
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Fixture{
		ID:         10,
		LeagueID:   1,
		HomeTeamID: 2,
		AwayTeamID: 3,
		Status:     StatusComplete,
		HomeGoals:  2, AwayGoals: 1,
		HomeHTGoals: 1, AwayHTGoals: 0,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	negative := valid
	negative.AwayGoals = -1
	if err := negative.Validate(); err == nil {
		t.Fatal("expected negative goals to fail validation")
	}

	halftime := valid
	halftime.HomeHTGoals = 3
	if err := halftime.Validate(); err == nil {
		t.Fatal("expected halftime > fulltime to fail validation")
	}

	unknown := valid
	unknown.Status = "halftime-ish"
	if err := unknown.Validate(); err == nil {
		t.Fatal("expected unknown status to fail validation")
	}
}
