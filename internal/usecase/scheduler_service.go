package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/futstats/campeonatos/internal/domain/fixture"
	"github.com/futstats/campeonatos/internal/domain/league"
	"github.com/futstats/campeonatos/internal/platform/logging"
)

// Priority classes, highest first.
const (
	PriorityLive     = "live"
	PriorityUpcoming = "upcoming"
	PriorityPeriodic = "periodic"
)

// League scheduling states.
const (
	LeagueIdle       = "idle"
	LeagueQueued     = "queued"
	LeagueCollecting = "collecting"
)

// LeagueCollector runs one collection cycle for a league.
type LeagueCollector interface {
	CollectLeague(ctx context.Context, lg league.League) (CycleResult, error)
}

type SchedulerConfig struct {
	Workers          int
	TickInterval     time.Duration
	LookaheadWindow  time.Duration
	LiveInterval     time.Duration
	UpcomingInterval time.Duration
	PeriodicInterval time.Duration
	CycleTimeout     time.Duration
}

func (c *SchedulerConfig) applyDefaults() {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.TickInterval <= 0 {
		c.TickInterval = 30 * time.Second
	}
	if c.LookaheadWindow <= 0 {
		c.LookaheadWindow = 30 * time.Minute
	}
	if c.LiveInterval <= 0 {
		c.LiveInterval = time.Minute
	}
	if c.UpcomingInterval <= 0 {
		c.UpcomingInterval = 5 * time.Minute
	}
	if c.PeriodicInterval <= 0 {
		c.PeriodicInterval = time.Hour
	}
	if c.CycleTimeout <= 0 {
		c.CycleTimeout = 5 * time.Minute
	}
}

type leagueState struct {
	state   string
	lastRun time.Time
}

// SchedulerService decides which leagues to collect and when. Leagues with a
// live fixture poll fastest, leagues with a kickoff inside the look-ahead
// window next, everything else on the periodic cadence. A league that is
// queued or collecting is never enqueued again.
type SchedulerService struct {
	leagues   league.Repository
	fixtures  fixture.Repository
	collector LeagueCollector
	pool      *ants.Pool
	cfg       SchedulerConfig
	logger    *logging.Logger
	now       func() time.Time

	mu     sync.Mutex
	states map[int64]*leagueState
}

func NewSchedulerService(
	leagues league.Repository,
	fixtures fixture.Repository,
	collector LeagueCollector,
	cfg SchedulerConfig,
	logger *logging.Logger,
) (*SchedulerService, error) {
	cfg.applyDefaults()
	if logger == nil {
		logger = logging.Default()
	}
	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("create scheduler worker pool: %w", err)
	}
	return &SchedulerService{
		leagues:   leagues,
		fixtures:  fixtures,
		collector: collector,
		pool:      pool,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		states:    make(map[int64]*leagueState),
	}, nil
}

func (s *SchedulerService) Close() {
	s.pool.Release()
}

// Run ticks until the context ends.
func (s *SchedulerService) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.ErrorContext(ctx, "scheduler pass failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce plans one scheduling pass and enqueues every due idle league.
func (s *SchedulerService) RunOnce(ctx context.Context) error {
	leagues, err := s.leagues.List(ctx)
	if err != nil {
		return fmt.Errorf("list leagues: %w", err)
	}

	now := s.now()
	// Live leagues first, then upcoming, then periodic.
	for _, class := range []string{PriorityLive, PriorityUpcoming, PriorityPeriodic} {
		for _, lg := range leagues {
			priority, err := s.classify(ctx, lg, now)
			if err != nil {
				s.logger.WarnContext(ctx, "league classification failed", "league_id", lg.ID, "error", err)
				continue
			}
			if priority != class || !s.due(lg.ID, priority, now) {
				continue
			}
			if err := s.enqueue(ctx, lg, priority); err != nil {
				s.logger.WarnContext(ctx, "league enqueue failed", "league_id", lg.ID, "error", err)
			}
		}
	}
	return nil
}

// classify picks the league's priority class from its fixture horizon.
func (s *SchedulerService) classify(ctx context.Context, lg league.League, now time.Time) (string, error) {
	fixtures, err := s.fixtures.ListByLeagueSeason(ctx, lg.ID, lg.SeasonID)
	if err != nil {
		return "", fmt.Errorf("list fixtures for league %d: %w", lg.ID, err)
	}
	return classifyLeague(fixtures, now, s.cfg.LookaheadWindow), nil
}

func classifyLeague(fixtures []fixture.Fixture, now time.Time, lookahead time.Duration) string {
	horizon := now.Add(lookahead)
	upcoming := false
	for _, f := range fixtures {
		if fixture.IsLiveStatus(f.Status) {
			return PriorityLive
		}
		if f.Status != fixture.StatusScheduled {
			continue
		}
		kickoff := f.Kickoff()
		if kickoff.IsZero() || kickoff.Before(now) {
			continue
		}
		if !kickoff.After(horizon) {
			upcoming = true
		}
	}
	if upcoming {
		return PriorityUpcoming
	}
	return PriorityPeriodic
}

func (s *SchedulerService) interval(priority string) time.Duration {
	switch priority {
	case PriorityLive:
		return s.cfg.LiveInterval
	case PriorityUpcoming:
		return s.cfg.UpcomingInterval
	default:
		return s.cfg.PeriodicInterval
	}
}

func (s *SchedulerService) due(leagueID int64, priority string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[leagueID]
	if !ok {
		return true
	}
	if st.state != LeagueIdle {
		return false
	}
	return now.Sub(st.lastRun) >= s.interval(priority)
}

func (s *SchedulerService) enqueue(ctx context.Context, lg league.League, priority string) error {
	if !s.markQueued(lg.ID) {
		return nil
	}
	if err := s.pool.Submit(func() {
		s.runCycle(ctx, lg, priority)
	}); err != nil {
		s.markIdle(lg.ID, time.Time{})
		return fmt.Errorf("submit league %d to worker pool: %w", lg.ID, err)
	}
	return nil
}

func (s *SchedulerService) runCycle(ctx context.Context, lg league.League, priority string) {
	s.markCollecting(lg.ID)
	started := s.now()

	cycleCtx, cancel := context.WithTimeout(ctx, s.cfg.CycleTimeout)
	defer cancel()

	result, err := s.collector.CollectLeague(cycleCtx, lg)
	finished := s.now()
	s.markIdle(lg.ID, finished)

	switch {
	case errors.Is(err, ErrLeaseHeld):
		s.logger.InfoContext(ctx, "league collected elsewhere", "league_id", lg.ID, "priority", priority)
	case err != nil:
		s.logger.ErrorContext(ctx, "collection cycle failed",
			"league_id", lg.ID, "priority", priority, "duration_ms", finished.Sub(started).Milliseconds(), "error", err)
	default:
		s.logger.InfoContext(ctx, "collection cycle complete",
			"league_id", lg.ID, "priority", priority, "state", result.State,
			"duration_ms", finished.Sub(started).Milliseconds())
	}
}

func (s *SchedulerService) markQueued(leagueID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[leagueID]
	if !ok {
		st = &leagueState{state: LeagueIdle}
		s.states[leagueID] = st
	}
	if st.state != LeagueIdle {
		return false
	}
	st.state = LeagueQueued
	return true
}

func (s *SchedulerService) markCollecting(leagueID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[leagueID]; ok {
		st.state = LeagueCollecting
	}
}

func (s *SchedulerService) markIdle(leagueID int64, lastRun time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[leagueID]
	if !ok {
		return
	}
	st.state = LeagueIdle
	if !lastRun.IsZero() {
		st.lastRun = lastRun
	}
}

// StateOf reports the league's scheduling state, defaulting to idle.
func (s *SchedulerService) StateOf(leagueID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[leagueID]; ok {
		return st.state
	}
	return LeagueIdle
}
