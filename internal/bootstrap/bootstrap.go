package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/4613216-rgb000/smart-bid-aide/internal/config"
	"github.com/4613216-rgb000/smart-bid-aide/internal/core/ports"
	"github.com/4613216-rgb000/smart-bid-aide/internal/core/usecase"
	"github.com/4613216-rgb000/smart-bid-aide/internal/infrastructure/firecrawl"
	"github.com/4613216-rgb000/smart-bid-aide/internal/infrastructure/llm/gateway"
	"github.com/4613216-rgb000/smart-bid-aide/internal/infrastructure/queue/nats"
	"github.com/4613216-rgb000/smart-bid-aide/internal/infrastructure/repository"
	"github.com/4613216-rgb000/smart-bid-aide/internal/infrastructure/resilience"
	"github.com/4613216-rgb000/smart-bid-aide/internal/infrastructure/slotstore/postgres"
	"github.com/4613216-rgb000/smart-bid-aide/internal/observability/logging"
	"github.com/4613216-rgb000/smart-bid-aide/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	Queue ports.CrawlQueue
	Repos *repository.Repositories

	IngestUC   *usecase.IngestUseCase
	TriageUC   *usecase.TriageUseCase
	PipelineUC *usecase.PipelineUseCase
	ProjectUC  *usecase.ProjectUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	logger := logging.NewJSONLogger(service, cfg.LogLevel)
	slog.SetDefault(logger)
	m := metrics.New(service)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	store := postgres.NewSlotStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	repos := repository.New(store, logger, repository.WithCorruptionHook(func(slot string) {
		m.RecordCorruptSlot(service, slot)
	}))

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: cfg.RetryMaxAttempts,
		BreakerEnabled:   cfg.BreakerEnabled,
	})

	crawler := firecrawl.New(cfg.FirecrawlURL, cfg.FirecrawlAPIKey,
		firecrawl.WithRateLimit(cfg.FirecrawlRatePerMin),
		firecrawl.WithExecutor(executor),
	)

	var extractor ports.TenderExtractor
	if cfg.AIGatewayAPIKey == "" {
		logger.Warn("AI gateway key not configured, tender extraction disabled")
		extractor = gateway.NewDisabled(logger)
	} else {
		extractor = gateway.New(cfg.AIGatewayURL, cfg.AIGatewayAPIKey, cfg.AIGatewayModel, logger,
			gateway.WithSnippetLimits(cfg.SearchPerHitChars, cfg.SearchSnippetChars),
			gateway.WithExecutor(executor),
			gateway.WithParseFailureHook(m.RecordParseFailure),
		)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init crawl queue: %w", err)
	}

	fetcher := &timedFetcher{inner: crawler, metrics: m, service: service}
	ingestUC := usecase.NewIngestUseCase(fetcher, fetcher,
		&timedExtractor{inner: extractor, metrics: m, service: service},
		repos.Tenders, repos.Configs, logger, usecase.IngestLimits{
		ScrapeSnippetChars: cfg.ScrapeSnippetChars,
		RawMarkdownChars:   cfg.RawMarkdownChars,
		SearchLimit:        cfg.DefaultSearchLimit,
	})

	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: m,

		Queue: queue,
		Repos: repos,

		IngestUC:   ingestUC,
		TriageUC:   usecase.NewTriageUseCase(repos.Tenders, repos.Projects),
		PipelineUC: usecase.NewPipelineUseCase(repos.Projects, repos.Cases),
		ProjectUC:  usecase.NewProjectUseCase(repos.Projects),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
