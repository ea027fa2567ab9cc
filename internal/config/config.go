package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const devSignKey = "dev-sign-key-change-me"

type Config struct {
	IsDev          bool
	Port           string
	FrontendOrigin string
	DBDriver       string
	DatabaseURL    string
	MaxOpenConns   int
	SignKey        []byte
	TokenTTL       time.Duration
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Print("No .env file found")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		IsDev:          os.Getenv("GO_ENV") == "development",
		Port:           getEnv("PORT", "5000"),
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
		DBDriver:       getEnv("DB_DRIVER", "sqlite3"),
		DatabaseURL:    getEnv("DATABASE_URL", "file:blog.sqlite?_foreign_keys=on&_busy_timeout=5000"),
		SignKey:        []byte(os.Getenv("JWT_SECRET")),
	}

	conns, err := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "10"))
	if err != nil || conns <= 0 {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS %q", os.Getenv("DB_MAX_OPEN_CONNS"))
	}
	cfg.MaxOpenConns = conns

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", os.Getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	if cfg.DBDriver != "sqlite3" && cfg.DBDriver != "pgx" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if len(cfg.SignKey) == 0 {
		if !cfg.IsDev {
			return nil, errors.New("JWT_SECRET must be set")
		}
		cfg.SignKey = []byte(devSignKey)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
