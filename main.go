package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"launchfast/internal/api"
	"launchfast/internal/cache"
	"launchfast/internal/config"
	"launchfast/internal/db"
	"launchfast/internal/logger"
)

var version = "dev"

func main() {
	cfg := config.Load()
	port := flag.Int("port", cfg.Port, "HTTP server port")
	flag.Parse()

	logger.Banner(version)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	// Redis-backed market cache when configured, in-memory otherwise.
	var marketCache cache.MarketCache = cache.NewMemory(cfg.CacheTTL)
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cfg.RedisAddr, cfg.CacheTTL)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.Warn("CACHE", fmt.Sprintf("Redis unavailable, using memory cache: %v", err))
		} else {
			logger.Success("CACHE", fmt.Sprintf("Connected to Redis at %s", cfg.RedisAddr))
			marketCache = rc
			defer rc.Close()
		}
	}

	srv := api.NewServer(cfg, database, marketCache, version)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("API", fmt.Sprintf("Listening on %s", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("API", fmt.Sprintf("Server failed: %v", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("API", "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("API", fmt.Sprintf("Shutdown: %v", err))
	}
	logger.Sync()
}
