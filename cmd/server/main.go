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

	"github.com/exlity/admin-backend/internal/api"
	"github.com/exlity/admin-backend/internal/core/service"
	"github.com/exlity/admin-backend/internal/infrastructure/auth"
	"github.com/exlity/admin-backend/internal/infrastructure/db/postgres"
	redisdb "github.com/exlity/admin-backend/internal/infrastructure/db/redis"
	"github.com/exlity/admin-backend/internal/infrastructure/queue"
	"github.com/exlity/admin-backend/internal/infrastructure/storage"
	"github.com/exlity/admin-backend/internal/pkg/config"
	"github.com/exlity/admin-backend/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Exlity Admin Backend API
// @version      1.0
// @description  Data access, identity, and integration API for the Exlity admin dashboard.
// @BasePath     /
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Two Postgres pools: the session role is subject to row-level security,
	// the service role bypasses it for privilege-sensitive entities.
	sessionDB, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Database.SessionURL})
	if err != nil {
		log.Fatal().Err(err).Msg("session database connection failed")
	}
	serviceDB, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Database.ServiceURL})
	if err != nil {
		log.Fatal().Err(err).Msg("service database connection failed")
	}
	postgres.VerifyServiceRole(ctx, serviceDB, log)

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}

	objectStore, err := storage.New(ctx, storage.Config{
		Endpoint:      cfg.Storage.Endpoint,
		Region:        cfg.Storage.Region,
		Bucket:        cfg.Storage.Bucket,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("object storage setup failed")
	}

	// --- Core wiring ---
	sessionStore := postgres.NewRecordStore(sessionDB)
	serviceStore := postgres.NewRecordStore(serviceDB)
	gateway := auth.NewGateway(cfg.Supabase.URL, cfg.Supabase.AnonKey, log)

	registry := service.NewRegistry(service.NewEntityFactory(sessionStore, serviceStore, log), log)
	identity := service.NewIdentityService(serviceStore, gateway, cfg.AppOrigin, log)
	client := service.NewClient(registry, identity, objectStore, log)
	exporter := service.NewExporter(registry, log)

	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, service.NewAuditRecorder(registry, log), log)
	dispatcher.Start(ctx)

	throttle := redisdb.NewLoginThrottle(rdb, cfg.LoginRateLimit)

	e := api.NewRouter(client, exporter, dispatcher, throttle, serviceDB, rdb, cfg.Supabase.JWTSecret, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
