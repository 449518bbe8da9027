package config

import (
	"testing"
	"time"
)

func TestDefault_Values(t *testing.T) {
	c := Default()
	if c == nil {
		t.Fatal("Default() returned nil")
	}
	if c.Port != 8080 {
		t.Errorf("Port = %d, want 8080", c.Port)
	}
	if c.DBPath != "launchfast.db" {
		t.Errorf("DBPath = %q, want launchfast.db", c.DBPath)
	}
	if c.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m", c.CacheTTL)
	}
	if c.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty (memory cache)", c.RedisAddr)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("SCORE_WORKERS", "4")

	c := Load()
	if c.Port != 9191 {
		t.Errorf("Port = %d, want 9191", c.Port)
	}
	if c.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q, want /tmp/test.db", c.DBPath)
	}
	if c.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", c.RedisAddr)
	}
	if c.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %v, want 90s", c.CacheTTL)
	}
	if c.ScoreWorkers != 4 {
		t.Errorf("ScoreWorkers = %d, want 4", c.ScoreWorkers)
	}
}

func TestLoad_IgnoresInvalidValues(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("CACHE_TTL", "-5s")
	c := Load()
	if c.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", c.Port)
	}
	if c.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want default 5m", c.CacheTTL)
	}
}
