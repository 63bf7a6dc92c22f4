package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Carbonhell/SmartDisplay/external/awsclient"
	configloader "github.com/Carbonhell/SmartDisplay/external/config"
	publisherimpl "github.com/Carbonhell/SmartDisplay/external/publisher"
	repositoryimpl "github.com/Carbonhell/SmartDisplay/external/repository"
	"github.com/Carbonhell/SmartDisplay/internal/config"
	"github.com/Carbonhell/SmartDisplay/internal/distribution"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/samber/do/v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	once := flag.Bool("once", false, "Run a single distribution and exit")
	flag.Parse()

	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "event_store", cfg.EventStoreBackend, "schedule", cfg.DistributionSchedule)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	job, err := do.Invoke[*distribution.Job](injector)
	if err != nil {
		slog.Error("failed to resolve distribution job", "error", err)
		os.Exit(1)
	}

	if *once {
		if _, err := job.Run(context.Background()); err != nil {
			slog.Error("distribution failed", "error", err)
			os.Exit(1)
		}
		return
	}
	runScheduler(cfg, job)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load(config.RoleDistributor)
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	awsclient.RegisterDI(injector)
	repositoryimpl.RegisterDI(injector)
	publisherimpl.RegisterDI(injector)
	distribution.RegisterDI(injector)

	return injector
}

func runScheduler(cfg *config.Config, job *distribution.Job) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A run still in progress makes the next tick a no-op.
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(cfg.DistributionSchedule, func() {
		if _, err := job.Run(ctx); err != nil {
			slog.Error("distribution failed", "error", err)
		}
	}); err != nil {
		slog.Error("invalid distribution schedule", "error", err, "schedule", cfg.DistributionSchedule)
		os.Exit(1)
	}

	metricsServer := startMetricsServer(cfg.MetricsListenAddr)

	c.Start()
	slog.Info("startup: distribution scheduler started", "schedule", cfg.DistributionSchedule)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	cancel()
	<-c.Stop().Done()
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", "error", err)
		}
	}
}

func startMetricsServer(addr string) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		slog.Info("startup: metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}
