package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/futstats/campeonatos/internal/domain/event"
	"github.com/futstats/campeonatos/internal/domain/fixture"
	"github.com/futstats/campeonatos/internal/domain/league"
	"github.com/futstats/campeonatos/internal/domain/player"
	"github.com/futstats/campeonatos/internal/domain/team"
	"github.com/futstats/campeonatos/internal/domain/teamstats"
	"github.com/futstats/campeonatos/internal/platform/cache"
	"github.com/futstats/campeonatos/internal/platform/logging"

	"github.com/futstats/campeonatos/internal/domain/lease"
)

// Cycle phase names, used in logs and the cycle result.
const (
	CycleFetching    = "fetching"
	CycleDetecting   = "detecting"
	CyclePersisting  = "persisting"
	CycleAggregating = "aggregating"
	CycleNotifying   = "notifying"
	CycleDone        = "done"
	CycleFailed      = "failed"
)

// EventSink receives the material-change events of a cycle in order.
type EventSink interface {
	Dispatch(ctx context.Context, ev event.Event) error
}

// CycleResult summarizes one league collection cycle.
type CycleResult struct {
	State           string
	FixturesCreated int
	FixturesUpdated int
	MaterialChanges int
	Malformed       int
	EventsEmitted   int
}

type CollectionConfig struct {
	Holder         string
	LeaseTTL       time.Duration
	TopScorerLimit int
}

// CollectionService runs the per-league collection cycle:
// fetch, detect, persist, aggregate, notify, invalidate.
type CollectionService struct {
	provider CompetitionProvider
	leagues  league.Repository
	teams    team.Repository
	fixtures fixture.Repository
	players  player.Repository
	stats    teamstats.Repository
	leases   lease.Repository
	sink     EventSink
	cache    *cache.Store
	cfg      CollectionConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewCollectionService(
	provider CompetitionProvider,
	leagues league.Repository,
	teams team.Repository,
	fixtures fixture.Repository,
	players player.Repository,
	stats teamstats.Repository,
	leases lease.Repository,
	sink EventSink,
	store *cache.Store,
	cfg CollectionConfig,
	logger *logging.Logger,
) *CollectionService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.LeaseTTL <= 0 {
		cfg.LeaseTTL = 5 * time.Minute
	}
	if cfg.TopScorerLimit <= 0 {
		cfg.TopScorerLimit = DefaultTopScorerLimit
	}
	return &CollectionService{
		provider: provider,
		leagues:  leagues,
		teams:    teams,
		fixtures: fixtures,
		players:  players,
		stats:    stats,
		leases:   leases,
		sink:     sink,
		cache:    store,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// BootstrapLeagues syncs the tracked league list and season pointers from the
// provider. A season with a lower year than the stored pointer is ignored.
func (s *CollectionService) BootstrapLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectionService.BootstrapLeagues")
	defer span.End()

	externals, err := s.provider.FetchLeagues(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch league list: %w", err)
	}

	out := make([]league.League, 0, len(externals))
	for _, ext := range externals {
		candidate, ok := latestSeason(ext.Seasons)
		if !ok {
			s.logger.WarnContext(ctx, "league has no seasons, skipping", "league", ext.Name)
			continue
		}
		lg := league.League{
			ID:         ext.ID,
			Name:       ext.Name,
			Country:    ext.Country,
			ImageURL:   ext.ImageURL,
			SeasonID:   candidate.ID,
			SeasonYear: candidate.Year,
		}
		existing, found, err := s.leagues.GetByID(ctx, lg.ID)
		if err != nil {
			return nil, fmt.Errorf("load league %d: %w", lg.ID, err)
		}
		if found && !existing.CanAdvanceSeason(candidate.ID, candidate.Year) {
			if candidate.Year < existing.SeasonYear {
				s.logger.WarnContext(ctx, "ignoring season regression",
					"league_id", lg.ID, "stored_year", existing.SeasonYear, "upstream_year", candidate.Year)
			}
			lg.SeasonID = existing.SeasonID
			lg.SeasonYear = existing.SeasonYear
		}
		if err := lg.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skipping malformed league record", "league", ext.Name, "error", err)
			continue
		}
		if err := s.leagues.Upsert(ctx, lg); err != nil {
			return nil, fmt.Errorf("upsert league %d: %w", lg.ID, err)
		}
		out = append(out, lg)
	}
	return out, nil
}

// CollectLeague runs one full cycle for the league. A held lease makes the
// whole cycle a no-op returning ErrLeaseHeld. Any phase failure ends the
// cycle without touching later phases; other leagues are unaffected.
func (s *CollectionService) CollectLeague(ctx context.Context, lg league.League) (CycleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectionService.CollectLeague")
	defer span.End()

	result := CycleResult{State: CycleFailed}
	if err := lg.Validate(); err != nil {
		return result, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ok, err := s.leases.Acquire(ctx, lg.ID, s.cfg.Holder, s.cfg.LeaseTTL)
	if err != nil {
		return result, fmt.Errorf("acquire lease for league %d: %w", lg.ID, err)
	}
	if !ok {
		return CycleResult{State: CycleDone}, ErrLeaseHeld
	}
	defer func() {
		// Release must survive a cancelled cycle; a lingering lease would
		// block the league until the TTL runs out.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := s.leases.Release(releaseCtx, lg.ID, s.cfg.Holder); err != nil {
			s.logger.WarnContext(releaseCtx, "lease release failed", "league_id", lg.ID, "error", err)
		}
	}()

	s.logger.InfoContext(ctx, "collection cycle started", "league_id", lg.ID, "phase", CycleFetching)
	snapshot, err := s.fetchSnapshot(ctx, lg)
	if err != nil {
		return result, err
	}

	s.logger.InfoContext(ctx, "collection cycle phase", "league_id", lg.ID, "phase", CycleDetecting)
	plan, err := s.detectChanges(ctx, lg, snapshot)
	if err != nil {
		return result, err
	}
	result.FixturesCreated = plan.created
	result.FixturesUpdated = plan.updated
	result.MaterialChanges = plan.material
	result.Malformed = snapshot.malformed

	s.logger.InfoContext(ctx, "collection cycle phase", "league_id", lg.ID, "phase", CyclePersisting)
	previousScorers, err := s.persist(ctx, lg, snapshot, plan)
	if err != nil {
		return result, err
	}

	events := plan.events
	if plan.material > 0 {
		s.logger.InfoContext(ctx, "collection cycle phase", "league_id", lg.ID, "phase", CycleAggregating)
		standingsEvents, err := s.aggregate(ctx, lg, previousScorers)
		if err != nil {
			return result, err
		}
		events = append(events, standingsEvents...)
	}

	s.logger.InfoContext(ctx, "collection cycle phase", "league_id", lg.ID, "phase", CycleNotifying)
	for _, ev := range events {
		if err := s.sink.Dispatch(ctx, ev); err != nil {
			s.logger.WarnContext(ctx, "event dispatch failed", "event_id", ev.ID, "kind", ev.Kind, "error", err)
			continue
		}
		result.EventsEmitted++
	}

	if s.cache != nil {
		s.cache.DeletePrefix(ctx, leagueCachePrefix(lg.ID))
	}

	result.State = CycleDone
	s.logger.InfoContext(ctx, "collection cycle finished",
		"league_id", lg.ID,
		"created", result.FixturesCreated,
		"updated", result.FixturesUpdated,
		"material", result.MaterialChanges,
		"malformed", result.Malformed,
		"events", result.EventsEmitted,
	)
	return result, nil
}

type leagueSnapshot struct {
	teams     []team.Team
	fixtures  []fixture.Fixture
	players   []player.Player
	malformed int
}

func (s *CollectionService) fetchSnapshot(ctx context.Context, lg league.League) (leagueSnapshot, error) {
	var snap leagueSnapshot

	extTeams, err := s.provider.FetchTeams(ctx, lg.SeasonID)
	if err != nil {
		return snap, fmt.Errorf("fetch teams for league %d: %w", lg.ID, err)
	}
	for _, ext := range extTeams {
		mapped := mapExternalTeam(lg, ext)
		if err := mapped.Validate(); err != nil {
			snap.malformed++
			s.logger.WarnContext(ctx, "skipping malformed team record", "league_id", lg.ID, "team", ext.Name, "error", err)
			continue
		}
		snap.teams = append(snap.teams, mapped)
	}

	extMatches, err := s.provider.FetchMatches(ctx, lg.SeasonID)
	if err != nil {
		return snap, fmt.Errorf("fetch matches for league %d: %w", lg.ID, err)
	}
	for _, ext := range extMatches {
		mapped := mapExternalMatch(lg, ext)
		if err := mapped.Validate(); err != nil {
			snap.malformed++
			s.logger.WarnContext(ctx, "skipping malformed match record", "league_id", lg.ID, "match_id", ext.ID, "error", err)
			continue
		}
		snap.fixtures = append(snap.fixtures, mapped)
	}

	for page := 1; ; page++ {
		extPlayers, more, err := s.provider.FetchPlayers(ctx, lg.SeasonID, page)
		if err != nil {
			return snap, fmt.Errorf("fetch players page %d for league %d: %w", page, lg.ID, err)
		}
		for _, ext := range extPlayers {
			mapped := mapExternalPlayer(lg, ext)
			if err := mapped.Validate(); err != nil {
				snap.malformed++
				s.logger.WarnContext(ctx, "skipping malformed player record", "league_id", lg.ID, "player", ext.Name, "error", err)
				continue
			}
			snap.players = append(snap.players, mapped)
		}
		if !more {
			break
		}
	}

	return snap, nil
}

type changePlan struct {
	upserts  []fixture.Fixture
	events   []event.Event
	created  int
	updated  int
	material int
}

func (s *CollectionService) detectChanges(ctx context.Context, lg league.League, snap leagueSnapshot) (changePlan, error) {
	var plan changePlan

	stored, err := s.fixtures.ListByLeagueSeason(ctx, lg.ID, lg.SeasonID)
	if err != nil {
		return plan, fmt.Errorf("load stored fixtures for league %d: %w", lg.ID, err)
	}
	byID := make(map[int64]fixture.Fixture, len(stored))
	for _, f := range stored {
		byID[f.ID] = f
	}

	occurred := s.now().UTC()
	for _, incoming := range snap.fixtures {
		var existing *fixture.Fixture
		if current, ok := byID[incoming.ID]; ok {
			existing = &current
		}
		change := DetectFixtureChange(existing, incoming)
		if !change.Persist {
			continue
		}
		plan.upserts = append(plan.upserts, incoming)
		if change.Created {
			plan.created++
		} else {
			plan.updated++
		}
		if !change.Material {
			continue
		}
		plan.material++
		kind := event.KindFixtureUpdated
		if change.Created {
			kind = event.KindFixtureCreated
		}
		plan.events = append(plan.events, fixtureEvent(kind, lg.ID, incoming, occurred))
	}
	return plan, nil
}

func (s *CollectionService) persist(ctx context.Context, lg league.League, snap leagueSnapshot, plan changePlan) ([]player.Player, error) {
	storedTeams, err := s.teams.ListByLeagueSeason(ctx, lg.ID, lg.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("load stored teams for league %d: %w", lg.ID, err)
	}
	teamByID := make(map[int64]team.Team, len(storedTeams))
	for _, t := range storedTeams {
		teamByID[t.ID] = t
	}
	changedTeams := make([]team.Team, 0, len(snap.teams))
	for _, t := range snap.teams {
		if current, ok := teamByID[t.ID]; ok && current.Equal(t) {
			continue
		}
		changedTeams = append(changedTeams, t)
	}
	if len(changedTeams) > 0 {
		if err := s.teams.UpsertMany(ctx, changedTeams); err != nil {
			return nil, fmt.Errorf("persist teams for league %d: %w", lg.ID, err)
		}
	}

	if len(plan.upserts) > 0 {
		if err := s.fixtures.UpsertMany(ctx, plan.upserts); err != nil {
			return nil, fmt.Errorf("persist fixtures for league %d: %w", lg.ID, err)
		}
	}

	previous, err := s.players.ListByLeagueSeason(ctx, lg.ID, lg.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("load stored players for league %d: %w", lg.ID, err)
	}
	previousScorers := ComputeTopScorers(previous, s.cfg.TopScorerLimit)

	playerByID := make(map[int64]player.Player, len(previous))
	for _, p := range previous {
		playerByID[p.ID] = p
	}
	changedPlayers := make([]player.Player, 0, len(snap.players))
	for _, p := range snap.players {
		if current, ok := playerByID[p.ID]; ok && current.Equal(p) {
			continue
		}
		changedPlayers = append(changedPlayers, p)
	}
	if len(changedPlayers) > 0 {
		if err := s.players.UpsertMany(ctx, changedPlayers); err != nil {
			return nil, fmt.Errorf("persist players for league %d: %w", lg.ID, err)
		}
	}
	return previousScorers, nil
}

func (s *CollectionService) aggregate(ctx context.Context, lg league.League, previousScorers []player.Player) ([]event.Event, error) {
	all, err := s.fixtures.ListByLeagueSeason(ctx, lg.ID, lg.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("load fixtures for aggregation, league %d: %w", lg.ID, err)
	}
	teams, err := s.teams.ListByLeagueSeason(ctx, lg.ID, lg.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("load teams for aggregation, league %d: %w", lg.ID, err)
	}
	names := make(map[int64]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}

	rows := BuildTeamStatistics(lg.ID, lg.SeasonID, lg.SeasonYear, all, names)
	if err := s.stats.ReplaceByLeagueSeason(ctx, lg.ID, lg.SeasonID, rows); err != nil {
		return nil, fmt.Errorf("replace standings for league %d: %w", lg.ID, err)
	}

	occurred := s.now().UTC()
	events := []event.Event{standingsEvent(lg, rows, occurred)}

	currentPlayers, err := s.players.ListByLeagueSeason(ctx, lg.ID, lg.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("load players for scorer table, league %d: %w", lg.ID, err)
	}
	currentScorers := ComputeTopScorers(currentPlayers, s.cfg.TopScorerLimit)
	if TopScorerChanged(previousScorers, currentScorers) {
		events = append(events, topScorerEvent(lg, currentScorers[0], occurred))
	}
	return events, nil
}

// Standings returns the league season's standings table through the
// read-through cache. The next completed cycle for the league invalidates
// the cached copy.
func (s *CollectionService) Standings(ctx context.Context, leagueID, seasonID int64) ([]teamstats.TeamStatistics, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectionService.Standings")
	defer span.End()

	if s.cache == nil {
		return s.stats.ListByLeagueSeason(ctx, leagueID, seasonID)
	}
	key := fmt.Sprintf("%sstandings:%d", leagueCachePrefix(leagueID), seasonID)
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.stats.ListByLeagueSeason(ctx, leagueID, seasonID)
	})
	if err != nil {
		return nil, fmt.Errorf("load standings for league %d: %w", leagueID, err)
	}
	rows, _ := value.([]teamstats.TeamStatistics)
	return rows, nil
}

// TopScorers returns the league season's scorer table through the
// read-through cache.
func (s *CollectionService) TopScorers(ctx context.Context, leagueID, seasonID int64) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectionService.TopScorers")
	defer span.End()

	load := func(ctx context.Context) (any, error) {
		all, err := s.players.ListByLeagueSeason(ctx, leagueID, seasonID)
		if err != nil {
			return nil, err
		}
		return ComputeTopScorers(all, s.cfg.TopScorerLimit), nil
	}
	if s.cache == nil {
		value, err := load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load scorer table for league %d: %w", leagueID, err)
		}
		return value.([]player.Player), nil
	}
	key := fmt.Sprintf("%stopscorers:%d", leagueCachePrefix(leagueID), seasonID)
	value, err := s.cache.GetOrLoad(ctx, key, load)
	if err != nil {
		return nil, fmt.Errorf("load scorer table for league %d: %w", leagueID, err)
	}
	scorers, _ := value.([]player.Player)
	return scorers, nil
}

func latestSeason(seasons []ExternalSeason) (ExternalSeason, bool) {
	var best ExternalSeason
	found := false
	for _, s := range seasons {
		if s.ID <= 0 {
			continue
		}
		if !found || s.Year > best.Year || (s.Year == best.Year && s.ID > best.ID) {
			best = s
			found = true
		}
	}
	return best, found
}

func mapExternalTeam(lg league.League, ext ExternalTeam) team.Team {
	return team.Team{
		ID:        ext.ID,
		LeagueID:  lg.ID,
		SeasonID:  lg.SeasonID,
		Name:      ext.Name,
		CleanName: ext.CleanName,
		ShortHand: ext.ShortHand,
		Country:   ext.Country,
		ImageURL:  ext.ImageURL,
		URL:       ext.URL,
	}
}

func mapExternalMatch(lg league.League, ext ExternalMatch) fixture.Fixture {
	return fixture.Fixture{
		ID:           ext.ID,
		LeagueID:     lg.ID,
		SeasonID:     lg.SeasonID,
		HomeTeamID:   ext.HomeTeamID,
		AwayTeamID:   ext.AwayTeamID,
		HomeTeamName: ext.HomeName,
		AwayTeamName: ext.AwayName,
		Status:       fixture.NormalizeStatus(ext.Status),
		KickoffUnix:  ext.DateUnix,
		HomeGoals:    ext.HomeGoals,
		AwayGoals:    ext.AwayGoals,
		HomeHTGoals:  ext.HomeHTGoals,
		AwayHTGoals:  ext.AwayHTGoals,
		Venue:        ext.Stadium,
		VenueCity:    ext.StadiumCity,
		Referee:      ext.Referee,
	}
}

func mapExternalPlayer(lg league.League, ext ExternalPlayer) player.Player {
	return player.Player{
		ID:            ext.ID,
		LeagueID:      lg.ID,
		SeasonID:      lg.SeasonID,
		TeamID:        ext.TeamID,
		TeamName:      ext.TeamName,
		Name:          ext.Name,
		Position:      ext.Position,
		Nationality:   ext.Nationality,
		Goals:         ext.Goals,
		Assists:       ext.Assists,
		Appearances:   ext.Appearances,
		MinutesPlayed: ext.MinutesPlayed,
		CleanSheets:   ext.CleanSheets,
		YellowCards:   ext.YellowCards,
		RedCards:      ext.RedCards,
		PhotoURL:      ext.PhotoURL,
		ProfileURL:    ext.ProfileURL,
	}
}

func fixtureEvent(kind string, leagueID int64, f fixture.Fixture, occurred time.Time) event.Event {
	return event.Event{
		ID:       eventID(kind, leagueID, fmt.Sprintf("%d|%d|%s|%d-%d", f.ID, f.KickoffUnix, f.Status, f.HomeGoals, f.AwayGoals)),
		Kind:     kind,
		LeagueID: leagueID,
		Data: map[string]any{
			"fixture_id": f.ID,
			"home_team":  f.HomeTeamName,
			"away_team":  f.AwayTeamName,
			"home_goals": f.HomeGoals,
			"away_goals": f.AwayGoals,
			"status":     f.Status,
			"kickoff":    f.KickoffUnix,
		},
		OccurredAt: occurred,
	}
}

func standingsEvent(lg league.League, rows []teamstats.TeamStatistics, occurred time.Time) event.Event {
	fingerprint := fmt.Sprintf("%d", lg.SeasonID)
	table := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		fingerprint += fmt.Sprintf("|%d:%d:%d", r.TeamID, r.Points, r.GoalDifference())
		table = append(table, map[string]any{
			"rank":      r.Rank,
			"team_id":   r.TeamID,
			"team":      r.TeamName,
			"played":    r.Overall.Played,
			"points":    r.Points,
			"goal_diff": r.GoalDifference(),
			"form":      r.Form,
		})
	}
	return event.Event{
		ID:       eventID(event.KindStandingsUpdated, lg.ID, fingerprint),
		Kind:     event.KindStandingsUpdated,
		LeagueID: lg.ID,
		Data: map[string]any{
			"season_id": lg.SeasonID,
			"standings": table,
		},
		OccurredAt: occurred,
	}
}

func topScorerEvent(lg league.League, leader player.Player, occurred time.Time) event.Event {
	return event.Event{
		ID:       eventID(event.KindTopScorerUpdated, lg.ID, fmt.Sprintf("%d|%d", leader.ID, leader.Goals)),
		Kind:     event.KindTopScorerUpdated,
		LeagueID: lg.ID,
		Data: map[string]any{
			"player_id": leader.ID,
			"player":    leader.Name,
			"team":      leader.TeamName,
			"goals":     leader.Goals,
			"assists":   leader.Assists,
		},
		OccurredAt: occurred,
	}
}

// eventID derives the delivery dedup id from the event content, so a
// redelivered event keeps the same id.
func eventID(kind string, leagueID int64, fingerprint string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s", kind, leagueID, fingerprint)))
	return hex.EncodeToString(sum[:16])
}

func leagueCachePrefix(leagueID int64) string {
	return fmt.Sprintf("league:%d:", leagueID)
}
