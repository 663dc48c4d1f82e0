package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pgctour/fantasy-golf/external/datagolf"
	"github.com/pgctour/fantasy-golf/external/jobqueue"
	"github.com/pgctour/fantasy-golf/internal/config"
	"github.com/pgctour/fantasy-golf/internal/domain/entrant"
	"github.com/pgctour/fantasy-golf/internal/domain/golfer"
	"github.com/pgctour/fantasy-golf/internal/domain/jobdispatch"
	"github.com/pgctour/fantasy-golf/internal/domain/season"
	"github.com/pgctour/fantasy-golf/internal/domain/standings"
	"github.com/pgctour/fantasy-golf/internal/domain/team"
	"github.com/pgctour/fantasy-golf/internal/domain/tier"
	"github.com/pgctour/fantasy-golf/internal/domain/tourcard"
	"github.com/pgctour/fantasy-golf/internal/domain/tournament"
	"github.com/pgctour/fantasy-golf/internal/infrastructure/repository/memory"
	"github.com/pgctour/fantasy-golf/internal/infrastructure/repository/postgres"
	"github.com/pgctour/fantasy-golf/internal/interfaces/httpapi"
	"github.com/pgctour/fantasy-golf/internal/observability"
	"github.com/pgctour/fantasy-golf/internal/platform/logging"
	"github.com/pgctour/fantasy-golf/internal/platform/resilience"
	"github.com/pgctour/fantasy-golf/internal/usecase"
)

// Application owns every long-lived resource the process runs: the public
// HTTP server, the optional pprof listener, the database handle and the
// observability exporters. Shutdown releases them in reverse order.
type Application struct {
	Server *http.Server

	pprofServer     *http.Server
	db              *sqlx.DB
	shutdownUptrace func(context.Context) error
	stopPyroscope   func() error
	logger          *logging.Logger
}

type repositories struct {
	seasons     season.Repository
	tiers       tier.Repository
	tournaments tournament.Repository
	golfers     golfer.Repository
	entrants    entrant.Repository
	teams       team.Repository
	tourCards   tourcard.Repository
	standings   standings.Repository
	dispatches  jobdispatch.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Default()
	}

	app := &Application{logger: logger}

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}
	app.shutdownUptrace = shutdownUptrace

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("init pyroscope: %w", err)
	}
	app.stopPyroscope = stopPyroscope

	pprofServer, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("start pprof server: %w", err)
	}
	app.pprofServer = pprofServer

	repos, db, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		app.close(ctx)
		return nil, err
	}
	app.db = db

	slogLogger := newSlogLogger(cfg.LogLevel)

	provider := buildSnapshotProvider(cfg, logger)
	queue := buildJobQueue(cfg, slogLogger)

	scoringSvc := usecase.NewScoringService(repos.teams, repos.golfers, usecase.ScoringConfig{
		Aggregation:    usecase.AggregationRule(cfg.ScoringAggregation),
		CountingScores: cfg.ScoringCountingScores,
	}, logger)
	standingsSvc := usecase.NewStandingsService(repos.tournaments, repos.teams, repos.tourCards, repos.standings, logger)
	groupingSvc := usecase.NewGroupingService(repos.tournaments, repos.entrants, repos.golfers, repos.teams, usecase.GroupingConfig{
		GroupSize: cfg.GroupSize,
	}, logger)
	syncSvc := usecase.NewSyncService(
		repos.tournaments,
		repos.entrants,
		repos.golfers,
		repos.tiers,
		repos.teams,
		provider,
		scoringSvc,
		standingsSvc,
		usecase.SyncConfig{ActivationLead: cfg.SyncActivationLead},
		logger,
	)
	repairSvc := usecase.NewRepairService(repos.tournaments, syncSvc, standingsSvc, usecase.RepairConfig{
		MaxWorkers: cfg.RepairMaxWorkers,
	}, logger)
	leaderboardSvc := usecase.NewLeaderboardService(repos.seasons, repos.tournaments, repos.teams, repos.entrants, repos.golfers)
	orchestratorSvc := usecase.NewJobOrchestratorService(
		repos.tournaments,
		repos.entrants,
		syncSvc,
		queue,
		repos.dispatches,
		usecase.JobOrchestratorConfig{
			LiveInterval: cfg.JobLiveInterval,
			IdleInterval: cfg.JobIdleInterval,
			PreStartLead: cfg.JobPreStartLead,
		},
		logger,
	)

	handler := httpapi.NewHandler(
		leaderboardSvc,
		standingsSvc,
		groupingSvc,
		syncSvc,
		repairSvc,
		orchestratorSvc,
		repos.dispatches,
		slogLogger,
	)
	router := httpapi.NewRouter(handler, slogLogger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	if cfg.HTTPAddr == "" {
		app.close(ctx)
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return app, nil
}

// Shutdown stops the HTTP servers, then flushes exporters and closes the
// database. Errors are logged rather than aggregated; the first server
// shutdown error wins because it is the one that loses requests.
func (a *Application) Shutdown(ctx context.Context) error {
	var firstErr error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	a.close(ctx)
	return firstErr
}

func (a *Application) close(ctx context.Context) {
	if a.pprofServer != nil {
		if err := observability.StopPprofServer(a.pprofServer, a.logger, 5*time.Second); err != nil {
			a.logger.Warn("pprof shutdown failed", "error", err)
		}
		a.pprofServer = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("database close failed", "error", err)
		}
		a.db = nil
	}
	if a.stopPyroscope != nil {
		if err := a.stopPyroscope(); err != nil {
			a.logger.Warn("pyroscope stop failed", "error", err)
		}
		a.stopPyroscope = nil
	}
	if a.shutdownUptrace != nil {
		if err := a.shutdownUptrace(ctx); err != nil {
			a.logger.Warn("uptrace shutdown failed", "error", err)
		}
		a.shutdownUptrace = nil
	}
}

// buildRepositories picks the storage backend from DB_URL: postgres when
// set, otherwise the seeded in-memory fixtures that back local development.
func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	if cfg.DBURL == "" {
		logger.Info("storage backend", "driver", "memory", "reason", "DB_URL empty")
		return buildMemoryRepositories(), nil, nil
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("open database: %w", err)
	}

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		_ = db.Close()
		return repositories{}, nil, fmt.Errorf("bootstrap seed: %w", err)
	}

	logger.Info("storage backend", "driver", "postgres", "database", dbNameFromURL(cfg.DBURL))
	return repositories{
		seasons:     postgres.NewSeasonRepository(db),
		tiers:       postgres.NewTierRepository(db),
		tournaments: postgres.NewTournamentRepository(db),
		golfers:     postgres.NewGolferRepository(db),
		entrants:    postgres.NewEntrantRepository(db),
		teams:       postgres.NewTeamRepository(db),
		tourCards:   postgres.NewTourCardRepository(db),
		standings:   postgres.NewStandingsRepository(db),
		dispatches:  postgres.NewJobDispatchRepository(db),
	}, db, nil
}

func buildMemoryRepositories() repositories {
	return repositories{
		seasons:     memory.NewSeasonRepository(memory.SeedSeasons()),
		tiers:       memory.NewTierRepository(nil),
		tournaments: memory.NewTournamentRepository(memory.SeedTournaments()),
		golfers:     memory.NewGolferRepository(memory.SeedGolfers()),
		entrants:    memory.NewEntrantRepository(memory.SeedEntrants()),
		teams:       memory.NewTeamRepository(memory.SeedTeams(), memory.SeasonByTournament()),
		tourCards:   memory.NewTourCardRepository(memory.SeedTourCards()),
		standings:   memory.NewStandingsRepository(),
		dispatches:  memory.NewJobDispatchRepository(),
	}
}

func buildSnapshotProvider(cfg config.Config, logger *logging.Logger) usecase.SnapshotProvider {
	if !cfg.DataGolfEnabled {
		logger.Info("snapshot provider disabled", "reason", "DATAGOLF_ENABLED=false")
		return nil
	}

	return datagolf.NewClient(datagolf.ClientConfig{
		BaseURL:    cfg.DataGolfBaseURL,
		Key:        cfg.DataGolfKey,
		Tour:       cfg.DataGolfTour,
		Timeout:    cfg.DataGolfTimeout,
		MaxRetries: cfg.DataGolfMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.DataGolfCircuitEnabled,
			FailureThreshold: cfg.DataGolfCircuitFailureCount,
			OpenTimeout:      cfg.DataGolfCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.DataGolfCircuitHalfOpenMaxReq,
		},
	})
}

func buildJobQueue(cfg config.Config, logger *slog.Logger) usecase.JobQueue {
	if !cfg.QStashEnabled {
		return usecase.NewNoopJobQueue()
	}

	return jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.QStashCircuitEnabled,
			FailureThreshold: cfg.QStashCircuitFailureCount,
			OpenTimeout:      cfg.QStashCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
		},
	}, logger)
}

// newSlogLogger adapts the zap-backed level to the slog handler used by the
// HTTP layer, so both sides honor APP_LOG_LEVEL.
func newSlogLogger(level logging.Level) *slog.Logger {
	var slogLevel slog.Level
	switch {
	case level <= logging.Level(-1):
		slogLevel = slog.LevelDebug
	case level == 0:
		slogLevel = slog.LevelInfo
	case level == 1:
		slogLevel = slog.LevelWarn
	default:
		slogLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
}
