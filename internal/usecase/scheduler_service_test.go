package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/futstats/campeonatos/internal/domain/fixture"
	"github.com/futstats/campeonatos/internal/domain/league"
	"github.com/futstats/campeonatos/internal/infrastructure/repository/memory"
	"github.com/futstats/campeonatos/internal/platform/logging"
)

type blockingCollector struct {
	mu      sync.Mutex
	calls   []int64
	started chan int64
	release chan struct{}
}

func newBlockingCollector() *blockingCollector {
	return &blockingCollector{
		started: make(chan int64, 16),
		release: make(chan struct{}),
	}
}

func (c *blockingCollector) CollectLeague(_ context.Context, lg league.League) (CycleResult, error) {
	c.mu.Lock()
	c.calls = append(c.calls, lg.ID)
	c.mu.Unlock()
	c.started <- lg.ID
	<-c.release
	return CycleResult{State: CycleDone}, nil
}

func (c *blockingCollector) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func TestClassifyLeague(t *testing.T) {
	t.Parallel()

	now := time.Unix(10_000, 0)
	lookahead := 30 * time.Minute

	live := []fixture.Fixture{{ID: 1, Status: fixture.StatusLive}}
	if got := classifyLeague(live, now, lookahead); got != PriorityLive {
		t.Fatalf("expected live priority, got %q", got)
	}

	upcoming := []fixture.Fixture{{
		ID: 2, Status: fixture.StatusScheduled, KickoffUnix: now.Add(10 * time.Minute).Unix(),
	}}
	if got := classifyLeague(upcoming, now, lookahead); got != PriorityUpcoming {
		t.Fatalf("expected upcoming priority, got %q", got)
	}

	distant := []fixture.Fixture{{
		ID: 3, Status: fixture.StatusScheduled, KickoffUnix: now.Add(3 * time.Hour).Unix(),
	}}
	if got := classifyLeague(distant, now, lookahead); got != PriorityPeriodic {
		t.Fatalf("expected periodic priority, got %q", got)
	}

	finished := []fixture.Fixture{{ID: 4, Status: fixture.StatusComplete, KickoffUnix: now.Add(time.Minute).Unix()}}
	if got := classifyLeague(finished, now, lookahead); got != PriorityPeriodic {
		t.Fatalf("complete fixtures must not raise priority, got %q", got)
	}

	// Live outranks an imminent kickoff elsewhere in the league.
	mixed := append(append([]fixture.Fixture{}, upcoming...), live...)
	if got := classifyLeague(mixed, now, lookahead); got != PriorityLive {
		t.Fatalf("expected live to win, got %q", got)
	}
}

func TestSchedulerNeverDoubleEnqueues(t *testing.T) {
	t.Parallel()

	lg := league.League{ID: 1, Name: "Primeira", SeasonID: 100, SeasonYear: 2025}
	leagues := memory.NewLeagueRepository([]league.League{lg})
	fixtures := memory.NewFixtureRepository([]fixture.Fixture{
		{ID: 1, LeagueID: 1, SeasonID: 100, HomeTeamID: 10, AwayTeamID: 11, Status: fixture.StatusLive},
	})
	collector := newBlockingCollector()

	scheduler, err := NewSchedulerService(leagues, fixtures, collector, SchedulerConfig{Workers: 2}, logging.NewNop())
	if err != nil {
		t.Fatalf("build scheduler: %v", err)
	}
	defer scheduler.Close()

	ctx := context.Background()
	if err := scheduler.RunOnce(ctx); err != nil {
		t.Fatalf("first pass failed: %v", err)
	}

	select {
	case <-collector.started:
	case <-time.After(2 * time.Second):
		t.Fatal("collection never started")
	}
	if got := scheduler.StateOf(1); got != LeagueCollecting {
		t.Fatalf("expected collecting state, got %q", got)
	}

	// Passes while the league is still collecting must not enqueue it again.
	for i := 0; i < 3; i++ {
		if err := scheduler.RunOnce(ctx); err != nil {
			t.Fatalf("pass failed: %v", err)
		}
	}
	if got := collector.callCount(); got != 1 {
		t.Fatalf("league enqueued %d times while collecting", got)
	}

	close(collector.release)
}

func TestSchedulerHonorsInterval(t *testing.T) {
	t.Parallel()

	lg := league.League{ID: 1, Name: "Primeira", SeasonID: 100, SeasonYear: 2025}
	leagues := memory.NewLeagueRepository([]league.League{lg})
	fixtures := memory.NewFixtureRepository(nil)
	collector := newBlockingCollector()
	close(collector.release) // collections return immediately

	scheduler, err := NewSchedulerService(leagues, fixtures, collector, SchedulerConfig{
		Workers:          1,
		PeriodicInterval: time.Hour,
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("build scheduler: %v", err)
	}
	defer scheduler.Close()

	base := time.Unix(100_000, 0)
	scheduler.now = func() time.Time { return base }

	ctx := context.Background()
	if err := scheduler.RunOnce(ctx); err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	<-collector.started
	waitForIdle(t, scheduler, 1)

	// Within the periodic interval the league stays parked.
	scheduler.now = func() time.Time { return base.Add(10 * time.Minute) }
	if err := scheduler.RunOnce(ctx); err != nil {
		t.Fatalf("second pass failed: %v", err)
	}
	if got := collector.callCount(); got != 1 {
		t.Fatalf("expected no collection inside the interval, got %d calls", got)
	}

	scheduler.now = func() time.Time { return base.Add(2 * time.Hour) }
	if err := scheduler.RunOnce(ctx); err != nil {
		t.Fatalf("third pass failed: %v", err)
	}
	<-collector.started
	waitForIdle(t, scheduler, 1)
	if got := collector.callCount(); got != 2 {
		t.Fatalf("expected collection after the interval, got %d calls", got)
	}
}

func waitForIdle(t *testing.T, s *SchedulerService, leagueID int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.StateOf(leagueID) == LeagueIdle {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("league %d never returned to idle", leagueID)
}
