package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"

	SessionStoreDB    = "db"
	SessionStoreRedis = "redis"
)

type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	DB      DBConfig
	Session SessionConfig
	Redis   RedisConfig
	Log     LogConfig
	Admin   AdminConfig
}

type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	Timezone string // location used to read booking form date-times
}

type HTTPConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	AllowedOrigins  []string // extra origins allowed to call the admin JSON API
}

func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DBConfig struct {
	URL string // postgres://... or a sqlite file path
}

type SessionConfig struct {
	JWTSecret    string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
	Store        string // db or redis
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	Level string
}

// AdminConfig is read by the seed binary to provision the first admin.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return isProdLike(c.App.Env)
}

// Load reads configuration from the environment, optionally overlaid on a
// .env or config.env file in the working directory. Env vars win.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "servicebooking")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("DATABASE_URL", "servicebooking.db")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_COOKIE", "session")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("SESSION_STORE", SessionStoreDB)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("ADMIN_PASSWORD", "")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
			Name:     v.GetString("APP_NAME"),
			Timezone: strings.TrimSpace(v.GetString("APP_TIMEZONE")),
		},
		HTTP: HTTPConfig{
			Host:            v.GetString("HTTP_HOST"),
			Port:            v.GetInt("HTTP_PORT"),
			ShutdownTimeout: v.GetDuration("HTTP_SHUTDOWN_TIMEOUT"),
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			URL: strings.TrimSpace(v.GetString("DATABASE_URL")),
		},
		Session: SessionConfig{
			JWTSecret:    strings.TrimSpace(v.GetString("JWT_SECRET")),
			TTL:          v.GetDuration("SESSION_TTL"),
			CookieName:   strings.TrimSpace(v.GetString("SESSION_COOKIE")),
			CookieSecure: v.GetBool("COOKIE_SECURE"),
			Store:        strings.ToLower(strings.TrimSpace(v.GetString("SESSION_STORE"))),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Admin: AdminConfig{
			Username: strings.TrimSpace(v.GetString("ADMIN_USERNAME")),
			Email:    strings.TrimSpace(v.GetString("ADMIN_EMAIL")),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DB.URL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if cfg.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be > 0")
	}
	if cfg.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE must not be empty")
	}
	if cfg.Session.Store != SessionStoreDB && cfg.Session.Store != SessionStoreRedis {
		return fmt.Errorf("SESSION_STORE must be one of: db, redis")
	}
	if cfg.Session.Store == SessionStoreRedis && strings.TrimSpace(cfg.Redis.Addr) == "" {
		return fmt.Errorf("REDIS_ADDR must be set when SESSION_STORE=redis")
	}
	if _, err := time.LoadLocation(cfg.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.App.Timezone, err)
	}

	if isProdLike(cfg.App.Env) {
		if cfg.Session.JWTSecret == "" || cfg.Session.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in production JWT_SECRET must be set and not default")
		}
		if !cfg.Session.CookieSecure {
			return fmt.Errorf("in production COOKIE_SECURE must be true")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

// splitList parses a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
