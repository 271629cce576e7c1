package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"countrysearch/internal/countries"
	countrymetrics "countrysearch/internal/countries/metrics"
	"countrysearch/internal/countries/search"
	"countrysearch/internal/countries/source"
	"countrysearch/internal/platform/config"
	"countrysearch/internal/platform/httpserver"
	"countrysearch/internal/platform/logger"
	"countrysearch/internal/platform/metrics"
	httptransport "countrysearch/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/countries.
func main() {
	// A .env file is optional; real environment variables take precedence.
	envErr := godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.New("error", "json").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		log.Debug("no .env file loaded, relying on process environment")
	}

	upstream := source.NewClient(cfg.Upstream.BaseURL,
		source.WithTimeout(cfg.Upstream.Timeout),
		source.WithLogger(log),
	)

	var dataset search.Loader
	if cfg.Dataset.Path != "" {
		static, err := source.LoadStatic(cfg.Dataset.Path)
		if err != nil {
			log.Error("failed to load dataset", "path", cfg.Dataset.Path, "error", err)
			os.Exit(1)
		}
		log.Info("using fixed dataset for in-memory search", "path", cfg.Dataset.Path, "countries", static.Len())
		dataset = static
	}

	svc, err := countries.NewService(countries.Deps{
		Upstream:    upstream,
		Dataset:     dataset,
		Concurrency: cfg.Upstream.MaxConcurrency,
		Logger:      log,
		Metrics:     countrymetrics.New(),
	})
	if err != nil {
		log.Error("failed to build country service", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Logger:      log,
		Metrics:     metrics.New(),
		CORSOrigins: cfg.Server.CORSOrigins,
		Modules:     []httptransport.Routes{countries.NewHandler(svc, log)},
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting countrysearch", "addr", cfg.Server.Addr, "upstream", cfg.Upstream.BaseURL)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
