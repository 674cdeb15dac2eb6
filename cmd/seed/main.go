package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"servicebooking/internal/config"
	"servicebooking/internal/database"
	"servicebooking/internal/domain"
	"servicebooking/internal/modules/auth"
	"servicebooking/internal/pkg/logger"
	"servicebooking/internal/repository"
)

var demoServices = []struct {
	name, description, price string
}{
	{"Haircut", "Wash, cut and style with a senior stylist.", "20.00"},
	{"Deep Tissue Massage", "Sixty minutes of focused muscle work.", "55.00"},
	{"Home Cleaning", "Three hours of cleaning for a flat up to 80 m2.", "79.90"},
	{"Dog Walking", "A 45 minute walk in the neighbourhood park.", "15.00"},
	{"Personal Training", "One-to-one gym session with a certified coach.", "40.00"},
	{"Yoga Class", "Small group hatha yoga, mats provided.", "12.50"},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Env: "development"}).Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	db, err := database.Connect(cfg.DB.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}

	log.Info().Msg("running migrations")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// ================== ADMIN ==================
	users := repository.NewUserRepository(db)
	_, err = users.GetByUsername(ctx, cfg.Admin.Username)
	switch {
	case err == nil:
		log.Info().Str("username", cfg.Admin.Username).Msg("admin already exists")
	case errors.Is(err, repository.ErrNotFound):
		if cfg.Admin.Password == "" {
			log.Fatal().Msg("ADMIN_PASSWORD is required to create the admin user")
		}
		if len(cfg.Admin.Password) > auth.MaxPasswordBytes {
			log.Fatal().Int("max_bytes", auth.MaxPasswordBytes).Msg("ADMIN_PASSWORD is too long")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("hash admin password")
		}
		admin := &domain.User{
			Username:     cfg.Admin.Username,
			Email:        cfg.Admin.Email,
			PasswordHash: string(hash),
			Role:         domain.RoleAdmin,
		}
		if err := users.Create(ctx, admin); err != nil {
			log.Fatal().Err(err).Msg("create admin")
		}
		log.Info().Str("username", admin.Username).Int64("id", admin.ID).Msg("admin created")
	default:
		log.Fatal().Err(err).Msg("lookup admin")
	}

	// ================== SERVICES ==================
	services := repository.NewServiceRepository(db)
	count, err := services.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("count services")
	}
	if count > 0 {
		log.Info().Int64("services", count).Msg("catalog not empty, skipping demo services")
		return
	}

	for _, s := range demoServices {
		svc := &domain.Service{
			Name:        s.name,
			Description: s.description,
			Price:       decimal.RequireFromString(s.price),
		}
		if err := services.Create(ctx, svc); err != nil {
			log.Fatal().Err(err).Str("name", s.name).Msg("create service")
		}
	}
	log.Info().Int("services", len(demoServices)).Msg("seed completed")
}
