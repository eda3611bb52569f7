package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	generation "storyforge/contexts/content-automation/generation-service"
	generationmemory "storyforge/contexts/content-automation/generation-service/adapters/memory"
	generationpostgres "storyforge/contexts/content-automation/generation-service/adapters/postgres"
	generationworkers "storyforge/contexts/content-automation/generation-service/application/workers"
	scheduling "storyforge/contexts/content-automation/scheduling-service"
	schedulingmemory "storyforge/contexts/content-automation/scheduling-service/adapters/memory"
	schedulingpostgres "storyforge/contexts/content-automation/scheduling-service/adapters/postgres"
	"storyforge/internal/platform/config"
	"storyforge/internal/platform/db"
	"storyforge/internal/platform/httpserver"
	"storyforge/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  generationworkers.OutboxRelay
	finalizer    generationworkers.AutoFinalizer
	relayEnabled bool
	finalEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	schedulingRepo := schedulingpostgres.NewRepository(pg.DB, logger)
	schedulingModule := scheduling.NewModule(scheduling.Dependencies{
		Items:     schedulingRepo,
		Slots:     schedulingRepo,
		Schedule:  schedulingRepo,
		Suggester: schedulingmemory.NewStaticHourSuggester(nil),
		Logger:    logger,
	})

	generationRepo := generationpostgres.NewRepository(pg.DB, logger)
	generationModule := generation.NewModule(generation.Dependencies{
		Campaigns: generationRepo,
		Items:     generationRepo,
		// The model backends are not wired yet; StubPipeline fills the
		// StagePipeline port until a real adapter replaces it here.
		Pipeline:    generationmemory.StubPipeline{},
		Scheduler:   publishSchedulerBridge{scheduling: schedulingModule},
		Outbox:      generationRepo,
		Clock:       generationpostgres.SystemClock{},
		IDGenerator: generationpostgres.UUIDGenerator{},
		MaxInFlight: int64(cfg.MaxConcurrentItems),
		AsyncRunner: cfg.EnableBatchRunner,
		Logger:      logger,
	})

	server := httpserver.New(generationModule, schedulingModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus, err := messaging.NewBus(logger)
	if err != nil {
		return nil, err
	}

	schedulingRepo := schedulingpostgres.NewRepository(pg.DB, logger)
	schedulingModule := scheduling.NewModule(scheduling.Dependencies{
		Items:     schedulingRepo,
		Slots:     schedulingRepo,
		Schedule:  schedulingRepo,
		Suggester: schedulingmemory.NewStaticHourSuggester(nil),
		Logger:    logger,
	})

	generationRepo := generationpostgres.NewRepository(pg.DB, logger)
	generationModule := generation.NewModule(generation.Dependencies{
		Campaigns: generationRepo,
		Items:     generationRepo,
		// The model backends are not wired yet; StubPipeline fills the
		// StagePipeline port until a real adapter replaces it here.
		Pipeline:    generationmemory.StubPipeline{},
		Scheduler:   publishSchedulerBridge{scheduling: schedulingModule},
		Outbox:      generationRepo,
		Clock:       generationpostgres.SystemClock{},
		IDGenerator: generationpostgres.UUIDGenerator{},
		MaxInFlight: int64(cfg.MaxConcurrentItems),
		Logger:      logger,
	})

	return &WorkerApp{
		postgres: pg,
		outboxRelay: generationworkers.OutboxRelay{
			Outbox:    generationRepo,
			Publisher: bus,
			Clock:     generationpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		finalizer: generationworkers.AutoFinalizer{
			Campaigns: generationRepo,
			Complete:  generationModule.Runner.Complete,
			Logger:    logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
		finalEnabled: cfg.EnableAutoFinalizer,
		pollInterval: cfg.WorkerPollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.finalEnabled {
			if err := w.finalizer.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.relayEnabled {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
