// Command server runs the scan API: Google sign-in, MRI upload, and
// out-of-process tumor classification.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	_ "github.com/neuroscan/scan-api/docs"
	"github.com/neuroscan/scan-api/internal/api"
	"github.com/neuroscan/scan-api/internal/infrastructure/config"
	mongostore "github.com/neuroscan/scan-api/internal/infrastructure/db/mongo"
	redisstore "github.com/neuroscan/scan-api/internal/infrastructure/db/redis"
	"github.com/neuroscan/scan-api/internal/infrastructure/identity"
	"github.com/neuroscan/scan-api/pkg/logger"
)

// @title        scan-api
// @version      1.0
// @description  Authenticated inference gateway: Google sign-in, image upload, and brain-MRI classification via an external worker process.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set, sessions are signed with the development default")
	}
	if cfg.GoogleClientID == "" {
		log.Warn().Msg("GOOGLE_CLIENT_ID not set, all logins will be rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	if err := mongostore.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}

	// The result cache is optional: start degraded rather than fail.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, result cache disabled")
			rdb = nil
		} else {
			defer rdb.Close()
			log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
		}
	}

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Upload.Dir).Msg("upload directory creation failed")
	}

	verifier := identity.NewGoogleVerifier(cfg.GoogleClientID, log)

	e := api.NewRouter(api.Deps{
		Config:   cfg,
		Mongo:    db,
		Redis:    rdb,
		Verifier: verifier,
		Logger:   log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}
