package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/futstats/campeonatos/external/footystats"
	"github.com/futstats/campeonatos/internal/config"
	"github.com/futstats/campeonatos/internal/domain/fixture"
	"github.com/futstats/campeonatos/internal/domain/league"
	"github.com/futstats/campeonatos/internal/domain/lease"
	"github.com/futstats/campeonatos/internal/domain/player"
	"github.com/futstats/campeonatos/internal/domain/team"
	"github.com/futstats/campeonatos/internal/domain/teamstats"
	"github.com/futstats/campeonatos/internal/domain/webhook"
	"github.com/futstats/campeonatos/internal/infrastructure/repository/memory"
	"github.com/futstats/campeonatos/internal/infrastructure/repository/postgres"
	webhookinfra "github.com/futstats/campeonatos/internal/infrastructure/webhook"
	"github.com/futstats/campeonatos/internal/platform/cache"
	"github.com/futstats/campeonatos/internal/platform/logging"
	"github.com/futstats/campeonatos/internal/platform/resilience"
	"github.com/futstats/campeonatos/internal/usecase"
)

type repositories struct {
	leagues  league.Repository
	teams    team.Repository
	fixtures fixture.Repository
	players  player.Repository
	stats    teamstats.Repository
	webhooks webhook.Repository
	leases   lease.Repository
}

// App owns the collector's wiring: provider client, repositories, webhook
// dispatch and the scheduler that drives collection cycles.
type App struct {
	cfg        config.Config
	logger     *logging.Logger
	db         *sqlx.DB
	collection *usecase.CollectionService
	scheduler  *usecase.SchedulerService

	// Webhooks is exposed for subscription management.
	Webhooks *usecase.WebhookService
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, repos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// Outbound HTTP calls carry trace spans via the otelhttp transport.
	provider := footystats.NewClient(footystats.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.FootyStatsTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:    cfg.FootyStatsBaseURL,
		APIKey:     cfg.FootyStatsAPIKey,
		Timeout:    cfg.FootyStatsTimeout,
		MaxRetries: cfg.FootyStatsMaxRetries,
		RateLimit:  cfg.FootyStatsRateLimit,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootyStatsCircuitEnabled,
			FailureThreshold: cfg.FootyStatsCircuitFailureCount,
			OpenTimeout:      cfg.FootyStatsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootyStatsCircuitHalfOpenReq,
		},
	})

	sender := webhookinfra.NewSender(webhookinfra.SenderConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.WebhookTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Timeout:     cfg.WebhookTimeout,
		MaxAttempts: cfg.WebhookMaxAttempts,
	}, logger)
	webhookSvc := usecase.NewWebhookService(repos.webhooks, sender, cfg.WebhookMaxConcurrent, logger)

	store := cache.NewStore(cfg.CacheTTL)

	collectionSvc := usecase.NewCollectionService(
		provider,
		repos.leagues,
		repos.teams,
		repos.fixtures,
		repos.players,
		repos.stats,
		repos.leases,
		webhookSvc,
		store,
		usecase.CollectionConfig{
			Holder:         cfg.CollectorHolder,
			LeaseTTL:       cfg.CollectorLeaseTTL,
			TopScorerLimit: cfg.TopScorerLimit,
		},
		logger,
	)

	schedulerSvc, err := usecase.NewSchedulerService(
		repos.leagues,
		repos.fixtures,
		collectionSvc,
		usecase.SchedulerConfig{
			Workers:          cfg.SchedulerWorkers,
			TickInterval:     cfg.SchedulerTickInterval,
			LookaheadWindow:  cfg.SchedulerLookaheadWindow,
			LiveInterval:     cfg.SchedulerLiveInterval,
			UpcomingInterval: cfg.SchedulerUpcomingInterval,
			PeriodicInterval: cfg.SchedulerPeriodicInterval,
			CycleTimeout:     cfg.SchedulerCycleTimeout,
		},
		logger,
	)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		collection: collectionSvc,
		scheduler:  schedulerSvc,
		Webhooks:   webhookSvc,
	}, nil
}

// Run synchronises the league catalogue once, then hands control to the
// scheduler until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	bootstrapCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	leagues, err := a.collection.BootstrapLeagues(bootstrapCtx)
	if err != nil {
		return fmt.Errorf("bootstrap leagues: %w", err)
	}

	a.logger.InfoContext(ctx, "collector started",
		"leagues", len(leagues),
		"holder", a.cfg.CollectorHolder,
		"workers", a.cfg.SchedulerWorkers,
		"tick_interval", a.cfg.SchedulerTickInterval.String(),
	)
	return a.scheduler.Run(ctx)
}

func (a *App) Close() error {
	a.scheduler.Close()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// buildRepositories connects to Postgres when DB_URL is set and falls back
// to in-memory stores otherwise, so the collector can run without a
// database in dev.
func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (*sqlx.DB, repositories, error) {
	if cfg.DBURL == "" {
		logger.Warn("DB_URL not set, using in-memory repositories")
		return nil, repositories{
			leagues:  memory.NewLeagueRepository(nil),
			teams:    memory.NewTeamRepository(nil),
			fixtures: memory.NewFixtureRepository(nil),
			players:  memory.NewPlayerRepository(nil),
			stats:    memory.NewTeamStatsRepository(),
			webhooks: memory.NewWebhookRepository(nil),
			leases:   memory.NewLeaseRepository(),
		}, nil
	}

	db, err := otelsqlx.ConnectContext(ctx, "postgres", cfg.DBURL,
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithDBSystem("postgresql"),
	)
	if err != nil {
		return nil, repositories{}, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(cfg.SchedulerWorkers * 4)
	db.SetMaxIdleConns(cfg.SchedulerWorkers)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, repositories{
		leagues:  postgres.NewLeagueRepository(db),
		teams:    postgres.NewTeamRepository(db),
		fixtures: postgres.NewFixtureRepository(db),
		players:  postgres.NewPlayerRepository(db),
		stats:    postgres.NewTeamStatsRepository(db),
		webhooks: postgres.NewWebhookRepository(db),
		leases:   postgres.NewLeaseRepository(db),
	}, nil
}
