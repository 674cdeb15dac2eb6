package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"servicebooking/internal/config"
	"servicebooking/internal/database"
	"servicebooking/internal/pkg/logger"
	"servicebooking/internal/repository"
)

// retention keeps ended sessions around for a day before they are purged.
const retention = 24 * time.Hour

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Env: "development"}).Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	if cfg.Session.Store == config.SessionStoreRedis {
		log.Info().Msg("redis sessions expire on their own, nothing to clean")
		return
	}

	db, err := database.Connect(cfg.DB.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := repository.NewSessionRepository(db).DeleteStale(ctx, time.Now().Add(-retention))
	if err != nil {
		log.Fatal().Err(err).Msg("cleanup sessions failed")
	}
	log.Info().Int64("sessions", removed).Msg("session cleanup completed")
}
