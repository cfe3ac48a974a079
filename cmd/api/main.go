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

	"github.com/blazetaller/taller-backend/api/routes"
	"github.com/blazetaller/taller-backend/internal/appointments"
	"github.com/blazetaller/taller-backend/internal/catalog"
	"github.com/blazetaller/taller-backend/internal/notifications"
	"github.com/blazetaller/taller-backend/internal/owners"
	"github.com/blazetaller/taller-backend/internal/payments"
	"github.com/blazetaller/taller-backend/internal/processes"
	"github.com/blazetaller/taller-backend/internal/provisioning"
	"github.com/blazetaller/taller-backend/internal/quotations"
	"github.com/blazetaller/taller-backend/internal/staff"
	"github.com/blazetaller/taller-backend/internal/vehicles"
	"github.com/blazetaller/taller-backend/pkg/config"
	"github.com/blazetaller/taller-backend/pkg/db"
	"github.com/blazetaller/taller-backend/pkg/logger"
	"github.com/blazetaller/taller-backend/pkg/metrics"
	"github.com/blazetaller/taller-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	domainMetrics := metrics.NewDomainMetrics(registry)

	services, err := buildServices(cfg, logg, dbClient, domainMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	// Missing role groups are fatal at startup.
	if err := services.Provisioning.CheckGroups(context.Background()); err != nil {
		logg.Error(context.Background(), "permission groups missing; run migrations", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": cfg.DB.Driver,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, registry, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
		logg.Info(ctx, "api server stopped")
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, domainMetrics *metrics.DomainMetrics) (routes.Services, error) {
	conn := dbClient.DB()

	provisioningService, err := provisioning.NewService(provisioning.ServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
		ExtraGroups:    cfg.Provisioning.ExtraGroups,
		Metrics:        domainMetrics,
		Logger:         logg,
	})
	if err != nil {
		return routes.Services{}, err
	}
	ownersService, err := owners.NewService(owners.NewRepository(conn), dbClient)
	if err != nil {
		return routes.Services{}, err
	}
	staffService, err := staff.NewService(staff.NewRepository(conn), dbClient)
	if err != nil {
		return routes.Services{}, err
	}
	vehiclesService, err := vehicles.NewService(vehicles.ServiceParams{
		Repo: vehicles.NewRepository(conn),
		Tx:   dbClient,
	})
	if err != nil {
		return routes.Services{}, err
	}
	catalogService, err := catalog.NewService(catalog.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	quotationsService, err := quotations.NewService(quotations.ServiceParams{
		Repo:    quotations.NewRepository(conn),
		Tx:      dbClient,
		Metrics: domainMetrics,
		Logger:  logg,
	})
	if err != nil {
		return routes.Services{}, err
	}
	processesService, err := processes.NewService(processes.ServiceParams{
		Repo: processes.NewRepository(conn),
		Tx:   dbClient,
	})
	if err != nil {
		return routes.Services{}, err
	}
	paymentsService, err := payments.NewService(payments.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	appointmentsService, err := appointments.NewService(appointments.NewRepository(conn), dbClient)
	if err != nil {
		return routes.Services{}, err
	}
	notificationsService, err := notifications.NewService(notifications.NewRepository(conn), dbClient, nil)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Provisioning:  provisioningService,
		Owners:        ownersService,
		Staff:         staffService,
		Vehicles:      vehiclesService,
		Catalog:       catalogService,
		Quotations:    quotationsService,
		Processes:     processesService,
		Payments:      paymentsService,
		Appointments:  appointmentsService,
		Notifications: notificationsService,
	}, nil
}
