package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/geotrace/geotrace/internal/app"
	"github.com/geotrace/geotrace/internal/auth"
	"github.com/geotrace/geotrace/internal/geo"
	"github.com/geotrace/geotrace/internal/health"
	"github.com/geotrace/geotrace/internal/history"
	"github.com/geotrace/geotrace/internal/observability"
	"github.com/geotrace/geotrace/internal/platform/cache"
	"github.com/geotrace/geotrace/internal/platform/db"
	"github.com/geotrace/geotrace/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	mongoClient, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Error("connect mongodb", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			logger.Warn("mongodb disconnect", slog.Any("error", err))
		}
	}()
	database := mongoClient.Database(cfg.MongoDatabase)

	// Redis only backs the geo cache; a failed ping degrades to
	// cache misses instead of aborting startup.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable", slog.Any("error", err))
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	// A missing signing secret must abort startup, not surface later
	// as per-request failures.
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("init token service", slog.Any("error", err))
		os.Exit(1)
	}

	authRepo := auth.NewRepository(database)
	historyRepo := history.NewRepository(database)
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		logger.Warn("ensure user indexes", slog.Any("error", err))
	}
	if err := historyRepo.EnsureIndexes(ctx); err != nil {
		logger.Warn("ensure history indexes", slog.Any("error", err))
	}

	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, tokens)
	authGate := auth.NewGate(logger, tokens)

	historyService := history.NewService(historyRepo)
	historyHandler := history.NewHandler(logger, historyService)

	geoClient := geo.NewClient(cfg.GeoBaseURL, cfg.GeoTimeout)
	geoCache := geo.NewCache(redisClient, cfg.GeoCacheTTL)
	geoService := geo.NewService(geoClient, geoCache, logger)
	geoHandler := geo.NewHandler(logger, geoService)

	healthHandler := health.NewHandler()
	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobsClient, cfg.HistoryRetention, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		AuthGate:       authGate,
		AuthHandler:    authHandler,
		GeoHandler:     geoHandler,
		HistoryHandler: historyHandler,
		HealthHandler:  healthHandler,
		JobHandler:     jobHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
