package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carehub/clinic-system/internal/api"
	"github.com/carehub/clinic-system/internal/infrastructure/config"
	clinicmongo "github.com/carehub/clinic-system/internal/infrastructure/db/mongo"
	clinicredis "github.com/carehub/clinic-system/internal/infrastructure/db/redis"
	"github.com/carehub/clinic-system/internal/infrastructure/queue"
	"github.com/carehub/clinic-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	client, db, err := clinicmongo.Connect(ctx, clinicmongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	rdb, err := clinicredis.Connect(ctx, clinicredis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	auditRepo := clinicmongo.NewAuditRepository(db)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditRepo, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(db, rdb, dispatcher, cfg.JWTSecret, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := clinicmongo.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := clinicmongo.NewAppointmentRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return clinicmongo.NewRecordRepository(db).EnsureIndexes(ctx)
}
