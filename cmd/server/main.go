package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/PJhaveri02/Booking-Service/internal/config"
	"github.com/PJhaveri02/Booking-Service/internal/database"
	"github.com/PJhaveri02/Booking-Service/internal/handler"
	"github.com/PJhaveri02/Booking-Service/internal/logger"
	"github.com/PJhaveri02/Booking-Service/internal/metrics"
	"github.com/PJhaveri02/Booking-Service/internal/middleware"
	"github.com/PJhaveri02/Booking-Service/internal/queue"
	"github.com/PJhaveri02/Booking-Service/internal/repository"
	"github.com/PJhaveri02/Booking-Service/internal/router"
	"github.com/PJhaveri02/Booking-Service/internal/service"
	"github.com/PJhaveri02/Booking-Service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	logger.Set(logger.NewLogger(cfg.Env))
	defer func() { _ = logger.Sync() }()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DSN(), database.Pool{
		MaxOpen:     cfg.DBMaxOpenConns,
		MaxIdle:     cfg.DBMaxIdleConns,
		MaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer db.Close()
	if cfg.DBMigrate {
		version, err := database.Migrate(db.DB)
		if err != nil {
			logger.Fatal("migrate database", zap.Error(err))
		}
		logger.Info("database migrated", zap.Uint("version", version))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewWithRegistry(reg)

	seats := repository.NewSeatRepo(db)
	concerts := repository.NewConcertRepo(db)

	pool := worker.NewPool(cfg.DispatchWorkers, cfg.DispatchQueueSize, m)
	registry := service.NewRegistry()
	dispatcher := service.NewDispatcher(registry, seats, pool, m)
	sweeper := worker.NewSweeper(dispatcher, cfg.SweepInterval, m)
	go sweeper.Start(ctx)

	var opts []service.ReservationOption
	if cfg.BrokerEnabled {
		publisher := queue.NewPublisher(cfg.RabbitURL)
		defer publisher.Close()
		// a slow broker must not hold up notification dispatch
		publishPool := worker.NewPool(cfg.PublishWorkers, cfg.PublishQueueSize, m)
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := publishPool.Close(closeCtx); err != nil {
				logger.Error("publish pool shutdown", zap.Error(err))
			}
		}()
		opts = append(opts, service.WithEventPublisher(publisher, publishPool, cfg.InstanceID))

		consumer := queue.NewConsumer(cfg.RabbitURL, cfg.InstanceID, dispatcher)
		go func() {
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("booking consumer stopped", zap.Error(err))
			}
		}()
	}
	reservations := service.NewReservationService(concerts, seats, dispatcher, m, opts...)
	subscriptions := service.NewSubscriptionService(concerts, registry, cfg.SubscriptionTTL, m)

	routerOpts := router.Options{JWTSecret: cfg.JWTSecret, Metrics: m, Gatherer: reg}
	if rdb := config.NewRedisClient(ctx); rdb != nil {
		defer rdb.Close()
		routerOpts.Cache = middleware.ResponseCache(config.LoadCacheConfig(), rdb)
		routerOpts.RateLimit = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb).Middleware()
	} else {
		logger.Warn("redis unavailable: response cache and rate limiting disabled")
	}

	e := router.New(router.Handlers{
		Health:        handler.NewHealthHandler(db),
		Auth:          handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)),
		Catalog:       handler.NewCatalogHandler(concerts, repository.NewPerformerRepo(db)),
		Seats:         handler.NewSeatHandler(seats),
		Bookings:      handler.NewBookingHandler(reservations, repository.NewBookingRepo(db)),
		Subscriptions: handler.NewSubscriptionHandler(subscriptions, m),
	}, routerOpts)

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("instance", cfg.InstanceID))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// waiting subscribers get 408 before the server stops accepting
	registry.Close()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	sweeper.Stop()
	if err := pool.Close(shutdownCtx); err != nil {
		logger.Error("worker pool shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
