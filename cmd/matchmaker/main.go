package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MikeSquared-Agency/Matchmaker/internal/api"
	"github.com/MikeSquared-Agency/Matchmaker/internal/assessment"
	"github.com/MikeSquared-Agency/Matchmaker/internal/config"
	"github.com/MikeSquared-Agency/Matchmaker/internal/hermes"
	"github.com/MikeSquared-Agency/Matchmaker/internal/metrics"
	"github.com/MikeSquared-Agency/Matchmaker/internal/store"
	"github.com/MikeSquared-Agency/Matchmaker/internal/traits"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logging.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Dataset and deck are built once and shared read-only.
	data := assessment.LoadData(cfg.Dataset.Path, traits.LoadOptions{
		NameColumn:        cfg.Dataset.NameColumn,
		DescriptionColumn: cfg.Dataset.DescriptionColumn,
	}, logger)
	deck, err := assessment.LoadDeck(cfg.Scenarios.Path, data.Registry, cfg.Scenarios.Strict, logger)
	if err != nil {
		logger.Error("failed to load scenarios", "error", err)
		os.Exit(1)
	}

	// Session store
	db, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open session store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("session store ready", "backend", cfg.Store.Backend)

	// Hermes (optional)
	var hermesClient hermes.Publisher
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSPublisher(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svc := assessment.New(db, hermesClient, data, deck, m, assessment.Options{
		TopN:             cfg.Ranking.TopN,
		ProfileThreshold: cfg.Ranking.ProfileThreshold,
		ProfileTopK:      cfg.Ranking.ProfileTopK,
	}, logger)

	// API server
	router := api.NewRouter(svc, m, api.RouterOptions{
		AdminToken:        cfg.Server.AdminToken,
		RequestsPerMinute: cfg.Server.RateLimit,
	}, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(reg),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "postgres":
		return store.NewPostgresStore(ctx, cfg.Database.URL)
	case "redis":
		return store.NewRedisStore(ctx, store.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.SessionTTL(),
		})
	default:
		return store.NewMemoryStore(), nil
	}
}
