package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/4613216-rgb000/smart-bid-aide/internal/bootstrap"
	"github.com/4613216-rgb000/smart-bid-aide/internal/config"
	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, "worker")
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: app.Metrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("worker metrics server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	log.Printf("worker subscribed to %s", cfg.NATSSubject)
	err = app.Queue.SubscribeCrawlRequested(ctx, func(handlerCtx context.Context, configID string) error {
		crawlCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		result, err := app.IngestUC.CrawlConfigured(crawlCtx, configID)
		if err != nil {
			app.Metrics.RecordCrawlRun("worker", "scrape", "error", 0)
			return err
		}

		app.Metrics.RecordCrawlRun("worker", string(result.Path), "ok", len(result.Tenders))
		if result.Path == domain.PathSearch {
			app.Metrics.RecordFallbackSearch()
		}
		app.Logger.Info("crawl finished",
			slog.String("config_id", configID),
			slog.String("path", string(result.Path)),
			slog.Int("tenders", len(result.Tenders)))
		return nil
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
