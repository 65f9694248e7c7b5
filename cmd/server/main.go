package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yukikurage/roster-api/internal/auth"
	"github.com/yukikurage/roster-api/internal/config"
	"github.com/yukikurage/roster-api/internal/database"
	"github.com/yukikurage/roster-api/internal/logger"
	"github.com/yukikurage/roster-api/internal/router"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	zlog, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.Open(cfg, zlog)
	if err != nil {
		zlog.Fatal("database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("migrate", zap.Error(err))
	}

	revocations, err := newRevocationStore(cfg, zlog)
	if err != nil {
		zlog.Fatal("redis", zap.Error(err))
	}
	defer revocations.Close()

	sessionStore, err := router.NewSessionStore(cfg)
	if err != nil {
		zlog.Fatal("session store", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := router.New(router.Deps{
		Config:       cfg,
		DB:           db,
		Logger:       zlog,
		Revocations:  revocations,
		SessionStore: sessionStore,
		Registry:     registry,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown", zap.Error(err))
	}
	zlog.Info("server stopped")
}

// newRevocationStore uses redis when REDIS_ADDR is set so revocations
// survive restarts and are shared between instances.
func newRevocationStore(cfg *config.Config, zlog *zap.Logger) (auth.RevocationStore, error) {
	if !cfg.Redis.Enabled() {
		zlog.Warn("REDIS_ADDR not set, token revocations are kept in memory")
		return auth.NewMemoryRevocationStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	zlog.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	return auth.NewRedisRevocationStore(client), nil
}
