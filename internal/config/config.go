// Package config holds application settings. Values come from the
// environment (with .env support); defaults suit local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the scoring service.
type Config struct {
	Port         int           `json:"port"`
	DBPath       string        `json:"db_path"`
	RedisAddr    string        `json:"redis_addr"` // empty = in-memory result cache
	CacheTTL     time.Duration `json:"cache_ttl"`
	ScoreWorkers int           `json:"score_workers"` // 0 = GOMAXPROCS
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Port:     8080,
		DBPath:   "launchfast.db",
		CacheTTL: 5 * time.Minute,
	}
}

// Load builds a Config from defaults overridden by the environment.
// A .env file in the working directory is read first if present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := Default()
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Port = n
		}
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.CacheTTL = d
		}
	}
	if v := os.Getenv("SCORE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ScoreWorkers = n
		}
	}
	return cfg
}
