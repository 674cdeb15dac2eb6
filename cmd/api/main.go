package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"servicebooking/internal/config"
	"servicebooking/internal/database"
	"servicebooking/internal/modules/auth"
	"servicebooking/internal/pkg/logger"
	"servicebooking/internal/pkg/metrics"
	"servicebooking/internal/repository"
	"servicebooking/internal/server"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Env: "development"}).Fatal().Err(err).Msg("load config")
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DB.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sessions auth.SessionStore
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		client, err := repository.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis connect failed")
		}
		defer client.Close()
		sessions = repository.NewRedisSessionStore(client)
	default:
		sessions = repository.NewSessionRepository(db)
	}

	router, err := server.NewRouter(server.Deps{
		Config:   cfg,
		DB:       db,
		Sessions: sessions,
		Log:      log,
		Metrics:  metrics.New(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build router")
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.App.Env).Str("session_store", cfg.Session.Store).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
