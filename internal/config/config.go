package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultAdminPassword = "admin123"
)

// Config holds all application configuration.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"dev"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// UploadsDir holds worker images when MinIO is not configured.
	UploadsDir string `env:"UPLOADS_DIR" envDefault:"./uploads"`

	Store     StoreConfig
	Auth      AuthConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	FCM       FCMConfig
	Sentry    SentryConfig
	CORS      CORSConfig
	Bootstrap BootstrapConfig
}

type StoreConfig struct {
	Driver        string `env:"STORE_DRIVER" envDefault:"sql"`
	DatabaseURL   string `env:"DATABASE_URL" envDefault:"shugly.db"`
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"shugly"`
}

type AuthConfig struct {
	JWTSecret             string        `env:"JWT_SECRET" envDefault:"change-me-jwt-secret"`
	JWTAccessTTL          time.Duration `env:"JWT_ACCESS_TTL" envDefault:"24h"`
	SessionProfileTimeout time.Duration `env:"SESSION_PROFILE_TIMEOUT" envDefault:"5s"`
}

// RedisConfig is optional; an empty URL switches the deny-list and chat fanout to in-process.
type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

type MinIOConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"worker-images"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	PublicURL string `env:"MINIO_PUBLIC_URL"`
}

type FCMConfig struct {
	CredentialsFile   string `env:"FCM_CREDENTIALS_FILE"`
	CredentialsBase64 string `env:"FCM_CREDENTIALS_BASE64"`
}

type SentryConfig struct {
	DSN              string  `env:"SENTRY_DSN"`
	TracesSampleRate float64 `env:"SENTRY_TRACES_SAMPLE_RATE" envDefault:"0.2"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
}

// BootstrapConfig is read by cmd/seed only.
type BootstrapConfig struct {
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@shugly.iq"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
}

// Load parses the environment (and .env when present) and validates the result.
func Load() (*Config, error) {
	cfg := new(Config)
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	slog.Info("config loaded",
		"env", cfg.AppEnv,
		"store", cfg.Store.Driver,
		"redis", cfg.Redis.URL != "",
		"minio", cfg.MinIO.Endpoint != "",
		"fcm", cfg.FCM.Enabled(),
		"sentry", cfg.Sentry.DSN != "",
	)
	return cfg, nil
}

func (c FCMConfig) Enabled() bool {
	return c.CredentialsFile != "" || c.CredentialsBase64 != ""
}

func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.Auth.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.Auth.SessionProfileTimeout <= 0 {
		return fmt.Errorf("SESSION_PROFILE_TIMEOUT must be > 0")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	switch cfg.Store.Driver {
	case "sql":
		if strings.TrimSpace(cfg.Store.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL must not be empty when STORE_DRIVER=sql")
		}
	case "mongo":
		if strings.TrimSpace(cfg.Store.MongoURI) == "" || strings.TrimSpace(cfg.Store.MongoDatabase) == "" {
			return fmt.Errorf("MONGO_URI and MONGO_DATABASE must be set when STORE_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of: sql, mongo")
	}
	if cfg.MinIO.Endpoint != "" && (cfg.MinIO.AccessKey == "" || cfg.MinIO.SecretKey == "") {
		return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required with MINIO_ENDPOINT")
	}
	if cfg.Sentry.TracesSampleRate < 0 || cfg.Sentry.TracesSampleRate > 1 {
		return fmt.Errorf("SENTRY_TRACES_SAMPLE_RATE must be within [0, 1]")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.Auth.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.Bootstrap.AdminPassword, defaultAdminPassword) {
			return fmt.Errorf("in prod/release ADMIN_PASSWORD must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
