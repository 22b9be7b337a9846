// Command api serves the production tracker HTTP API.
//
//	@title						Production Tracker API
//	@version					1.0
//	@description				Jobs, stage history, workers and daily logs of a jewelry workshop.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/goldline/production-tracker/internal/api"
	"github.com/goldline/production-tracker/internal/api/handler"
	"github.com/goldline/production-tracker/internal/core/ports"
	"github.com/goldline/production-tracker/internal/core/service"
	mongodb "github.com/goldline/production-tracker/internal/infrastructure/db/mongo"
	redisdb "github.com/goldline/production-tracker/internal/infrastructure/db/redis"
	"github.com/goldline/production-tracker/internal/infrastructure/storage"
	"github.com/goldline/production-tracker/internal/pkg/config"
	"github.com/goldline/production-tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "production-tracker",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server exited cleanly")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "production-tracker",
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	jobRepo := mongodb.NewJobRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	dailyLogRepo := mongodb.NewDailyLogRepository(db)
	if err := mongodb.EnsureIndexes(ctx, jobRepo, userRepo, dailyLogRepo); err != nil {
		return err
	}

	checks := map[string]handler.DependencyCheck{
		"mongo": handler.MongoCheck(db),
	}

	var guard service.LogReplayGuard
	if cfg.Redis.Enabled {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		guard = redisdb.NewLogGuard(rdb)
		checks["redis"] = handler.RedisCheck(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis log guard enabled")
	}

	blobs, err := newBlobStore(cfg, db, log)
	if err != nil {
		return err
	}
	checks["storage"] = func(context.Context) error {
		if blobs.State() == gobreaker.StateOpen {
			return errors.New("circuit open")
		}
		return nil
	}

	e := api.NewRouter(api.Services{
		Jobs:      service.NewJobService(jobRepo, guard, logger.Component("jobs")),
		Users:     service.NewUserService(userRepo, logger.Component("users")),
		Auth:      service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth")),
		DailyLogs: service.NewDailyLogService(dailyLogRepo, logger.Component("daily_logs")),
		Uploads:   service.NewUploadService(blobs, cfg.Storage.MaxBytes, logger.Component("uploads")),
	}, api.Options{
		JWTSecret:         cfg.JWTSecret,
		PinLoginPerMinute: cfg.PinLoginPerMinute,
		ReadinessChecks:   checks,
		Logger:            logger.Component("http"),
	})
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty, user administration is unprotected")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down http server")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

func newBlobStore(cfg *config.Config, db *mongo.Database, log zerolog.Logger) (*storage.BreakerStore, error) {
	var next ports.BlobStore
	switch cfg.Storage.Driver {
	case config.StorageGridFS:
		next = storage.NewGridFSStore(db, "", cfg.Storage.PublicBaseURL)
	default:
		local, err := storage.NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		next = local
	}
	log.Info().Str("driver", cfg.Storage.Driver).Msg("blob store ready")
	return storage.NewBreakerStore(next, logger.Component("storage")), nil
}
