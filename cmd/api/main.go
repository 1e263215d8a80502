package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fuelflow/fuelops-backend/api/routes"
	"github.com/fuelflow/fuelops-backend/internal/addresses"
	"github.com/fuelflow/fuelops-backend/internal/assets"
	"github.com/fuelflow/fuelops-backend/internal/catalog"
	"github.com/fuelflow/fuelops-backend/internal/customers"
	"github.com/fuelflow/fuelops-backend/internal/notify"
	"github.com/fuelflow/fuelops-backend/internal/orders"
	"github.com/fuelflow/fuelops-backend/internal/slots"
	"github.com/fuelflow/fuelops-backend/internal/wallets"
	"github.com/fuelflow/fuelops-backend/pkg/config"
	"github.com/fuelflow/fuelops-backend/pkg/db"
	"github.com/fuelflow/fuelops-backend/pkg/logger"
	"github.com/fuelflow/fuelops-backend/pkg/metrics"
	"github.com/fuelflow/fuelops-backend/pkg/migrate"
	"github.com/fuelflow/fuelops-backend/pkg/redis"
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

	if cfg.SMS.ClientID == "" {
		cfg.SMS.ClientID = "fuelops-api"
	}
	smsPublisher, err := notify.NewPublisher(cfg.SMS, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to connect sms publisher", err)
		os.Exit(1)
	}
	defer func() {
		if err := smsPublisher.Close(); err != nil {
			logg.Error(context.Background(), "error closing sms publisher", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	placementMetrics := metrics.NewPlacementMetrics(registry)

	gormDB := dbClient.DB()

	customersSvc, err := customers.NewService(customers.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(gormDB)
	catalogSvc, err := catalog.NewService(catalogRepo, customersSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	addressesSvc, err := addresses.NewService(addresses.NewRepository(gormDB), customersSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create addresses service", err)
		os.Exit(1)
	}

	slotsRepo := slots.NewRepository(gormDB)
	slotsSvc, err := slots.NewService(slotsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create slots service", err)
		os.Exit(1)
	}

	assetsSvc, err := assets.NewService(assets.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create assets service", err)
		os.Exit(1)
	}

	walletsSvc, err := wallets.NewService(wallets.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create wallets service", err)
		os.Exit(1)
	}

	codeStore, err := orders.NewCodeStore(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create code store", err)
		os.Exit(1)
	}

	ordersSvc, err := orders.NewService(orders.Deps{
		Repo:      orders.NewRepository(gormDB),
		SlotsRepo: slotsRepo,
		Tx:        dbClient,
		Customers: customersSvc,
		Catalog:   catalogRepo,
		Addresses: addressesSvc,
		Slots:     slotsSvc,
		Assets:    assetsSvc,
		Wallets:   walletsSvc,
		Codes:     codeStore,
		SMS:       smsPublisher,
		Metrics:   placementMetrics,
		Logger:    logg,
		OTP:       cfg.OTP,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			routes.Services{
				Customers: customersSvc,
				Catalog:   catalogSvc,
				Addresses: addressesSvc,
				Slots:     slotsSvc,
				Assets:    assetsSvc,
				Orders:    ordersSvc,
			}),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
