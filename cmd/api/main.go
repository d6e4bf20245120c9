// Package main is the entrypoint for the attendance API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/govtech/attendance-system/internal/api"
	"github.com/govtech/attendance-system/internal/core/service"
	"github.com/govtech/attendance-system/internal/infrastructure/config"
	mongodb "github.com/govtech/attendance-system/internal/infrastructure/db/mongo"
	redisdb "github.com/govtech/attendance-system/internal/infrastructure/db/redis"
	"github.com/govtech/attendance-system/internal/infrastructure/queue"
	"github.com/govtech/attendance-system/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	attendanceRepo := mongodb.NewAttendanceRepository(db)
	authRepo := mongodb.NewAuthRepository(db)
	eventRepo := mongodb.NewEventRepository(db)

	if err := attendanceRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create attendance indexes")
	}
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer func() { _ = rdb.Close() }()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	// --- Audit pipeline ---
	dedup := redisdb.NewDedupChecker(rdb)
	eventService := service.NewEventService(eventRepo, dedup, log)
	dispatcher := queue.NewDispatcher(cfg.Workers, eventService, log)
	dispatcher.Start(ctx)

	// --- Core services ---
	cache := redisdb.NewDashboardCache(rdb, cfg.DashboardTTL)
	attendanceService := service.NewAttendanceService(attendanceRepo, service.SystemClock(), dispatcher, cache, log)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, cfg.TokenTTL)

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, authService, attendanceService, cfg.JWTSecret, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("attendance API listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
