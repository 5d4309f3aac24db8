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
	"go.uber.org/multierr"

	"github.com/artvia/artvia-backend/api/controllers"
	"github.com/artvia/artvia-backend/api/routes"
	"github.com/artvia/artvia-backend/internal/artworks"
	"github.com/artvia/artvia-backend/internal/payments"
	"github.com/artvia/artvia-backend/internal/users"
	"github.com/artvia/artvia-backend/pkg/config"
	"github.com/artvia/artvia-backend/pkg/db"
	"github.com/artvia/artvia-backend/pkg/email"
	"github.com/artvia/artvia-backend/pkg/logger"
	"github.com/artvia/artvia-backend/pkg/metrics"
	"github.com/artvia/artvia-backend/pkg/migrate"
	pkgredis "github.com/artvia/artvia-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// Redis powers the trending cache, rate limits and checkout
	// idempotency. All of them degrade cleanly, so an unreachable
	// redis is a warning, not a startup failure.
	var redisClient *pkgredis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = pkgredis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Warn(logg.WithField(context.Background(), "error", err.Error()),
				"redis unavailable, caching and rate limits disabled")
			redisClient = nil
		}
	}

	var sender email.Sender
	if cfg.Sendgrid.APIKey != "" {
		sendgridSender, senderErr := email.NewSendgridSender(cfg.Sendgrid, logg)
		if senderErr != nil {
			logg.Error(context.Background(), "failed to create email sender", senderErr)
			os.Exit(1)
		}
		sender = sendgridSender
	} else {
		logg.Warn(context.Background(), "sendgrid api key not set, payment confirmations disabled")
	}

	var trendingCache artworks.TrendingCache
	if redisClient != nil {
		trendingCache = redisClient
	}

	artworkService, err := artworks.NewService(artworks.ServiceParams{
		Repo:     artworks.NewRepository(dbClient.DB()),
		Cache:    trendingCache,
		Trending: cfg.Trending,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create artwork service", err)
		os.Exit(1)
	}

	paymentService, err := payments.NewService(payments.ServiceParams{
		Repo:   payments.NewRepository(dbClient.DB()),
		Email:  sender,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(users.ServiceParams{
		Repo: users.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	readyChecks := map[string]controllers.Pinger{"database": dbClient}
	if redisClient != nil {
		readyChecks["redis"] = redisClient
	}

	router := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		Redis:       redisClient,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
		Registry:    registry,
		Artworks:    artworkService,
		Payments:    paymentService,
		Users:       userService,
		ReadyChecks: readyChecks,
	})

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
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	var closeErr error
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	if closeErr != nil {
		logg.Error(ctx, "error closing dependencies", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}
