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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blazetaller/taller-backend/internal/cron"
	"github.com/blazetaller/taller-backend/internal/notifications"
	"github.com/blazetaller/taller-backend/internal/quotations"
	"github.com/blazetaller/taller-backend/pkg/config"
	"github.com/blazetaller/taller-backend/pkg/db"
	"github.com/blazetaller/taller-backend/pkg/logger"
	"github.com/blazetaller/taller-backend/pkg/metrics"
	"github.com/blazetaller/taller-backend/pkg/migrate"
	"github.com/blazetaller/taller-backend/pkg/redis"
)

const serviceName = "maintenance-worker"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = serviceName

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	jobs, err := buildJobs(cfg, logg, dbClient, metrics.NewDomainMetrics(registry))
	if err != nil {
		logg.Error(context.Background(), "failed to wire maintenance jobs", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(serviceName, cfg.App.Env), cfg.Maintenance.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create maintenance lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: jobs,
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(registry),
		Interval: cfg.Maintenance.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create maintenance service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"interval":    cfg.Maintenance.Interval.String(),
	})

	if cfg.Metrics.Enabled {
		metricsServer := serveMetrics(ctx, logg, ":"+cfg.App.Port, cfg.Metrics.Path, registry)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	logg.Info(ctx, "starting maintenance worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "maintenance worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "maintenance worker shutting down gracefully")
}

func buildJobs(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, domainMetrics *metrics.DomainMetrics) (*cron.Registry, error) {
	conn := dbClient.DB()

	quotationsService, err := quotations.NewService(quotations.ServiceParams{
		Repo:    quotations.NewRepository(conn),
		Tx:      dbClient,
		Metrics: domainMetrics,
		Logger:  logg,
	})
	if err != nil {
		return nil, err
	}
	notificationsService, err := notifications.NewService(notifications.NewRepository(conn), dbClient, nil)
	if err != nil {
		return nil, err
	}

	reconcile, err := cron.NewQuotationReconcileJob(cron.QuotationReconcileJobParams{
		Logger:     logg,
		Quotations: quotationsService,
		BatchSize:  cfg.Maintenance.ReconcileBatchSize,
	})
	if err != nil {
		return nil, err
	}
	expiry, err := cron.NewNotificationExpiryJob(cron.NotificationExpiryJobParams{
		Logger:        logg,
		Notifications: notificationsService,
		MaxAge:        time.Duration(cfg.Maintenance.NotificationExpiryHours) * time.Hour,
	})
	if err != nil {
		return nil, err
	}
	return cron.NewRegistry(reconcile, expiry)
}

func serveMetrics(ctx context.Context, logg *logger.Logger, addr, path string, gatherer prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics listener stopped", err)
		}
	}()
	return server
}
