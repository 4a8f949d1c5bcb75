package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the tracker.
type Config struct {
	DatabaseURL      string
	DBConnectTimeout time.Duration
	JWTSecretKey     string
	ServerPort       int
	LogLevel         slog.Level

	// StatusSweepInterval is how often tournament and stage statuses are
	// recomputed from their dates. Zero disables the sweep.
	StatusSweepInterval time.Duration

	CORSAllowedOrigins []string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// rawEnv mirrors the environment one to one.
type rawEnv struct {
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`
	JWTSecretKey        string        `env:"JWT_SECRET_KEY,notEmpty"`
	ServerPort          int           `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel            slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
	StatusSweepInterval time.Duration `env:"STATUS_SWEEP_INTERVAL" envDefault:"1h"`
	CORSAllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	R2AccountID         string        `env:"R2_ACCOUNT_ID"`
	R2AccessKeyID       string        `env:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey   string        `env:"R2_SECRET_ACCESS_KEY"`
	R2BucketName        string        `env:"R2_BUCKET_NAME"`
	R2PublicBaseURL     string        `env:"R2_PUBLIC_BASE_URL"`
}

// R2Enabled reports whether the logo store is configured.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

// Load reads the configuration from the environment. A .env file is loaded
// first when present; variables already set win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var raw rawEnv
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if raw.ServerPort <= 0 || raw.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", raw.ServerPort)
	}
	if raw.DBConnectTimeout <= 0 {
		return nil, fmt.Errorf("DB_CONNECT_TIMEOUT must be positive, got %s", raw.DBConnectTimeout)
	}
	if raw.StatusSweepInterval < 0 {
		return nil, fmt.Errorf("STATUS_SWEEP_INTERVAL must not be negative, got %s", raw.StatusSweepInterval)
	}

	var origins []string
	for _, o := range raw.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		DatabaseURL:         raw.DatabaseURL,
		DBConnectTimeout:    raw.DBConnectTimeout,
		JWTSecretKey:        raw.JWTSecretKey,
		ServerPort:          raw.ServerPort,
		LogLevel:            raw.LogLevel,
		StatusSweepInterval: raw.StatusSweepInterval,
		CORSAllowedOrigins:  origins,
		R2AccountID:         raw.R2AccountID,
		R2AccessKeyID:       raw.R2AccessKeyID,
		R2SecretAccessKey:   raw.R2SecretAccessKey,
		R2BucketName:        raw.R2BucketName,
		R2PublicBaseURL:     raw.R2PublicBaseURL,
	}, nil
}
