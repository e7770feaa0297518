package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/4613216-rgb000/smart-bid-aide/internal/adapters/http"
	"github.com/4613216-rgb000/smart-bid-aide/internal/bootstrap"
	"github.com/4613216-rgb000/smart-bid-aide/internal/config"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, "api")
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	router := httpadapter.NewRouter(httpadapter.RouterOptions{
		Ingest:    app.IngestUC,
		Triage:    app.TriageUC,
		Pipeline:  app.PipelineUC,
		Directory: app.ProjectUC,

		Projects: app.Repos.Projects,
		Tenders:  app.Repos.Tenders,
		Cases:    app.Repos.Cases,
		Configs:  app.Repos.Configs,

		Queue:   app.Queue,
		Metrics: app.Metrics.Handler(),

		DefaultUpcomingDays: cfg.DefaultUpcomingDays,
	})

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      app.Metrics.Middleware("api", router.Handler()),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("api listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("api shutdown error: %v", err)
	}
}
