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
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"campaign_ai_server/api"
	"campaign_ai_server/config"
	"campaign_ai_server/internal/ai"
	handlers "campaign_ai_server/internal/api"
	"campaign_ai_server/internal/db"
	"campaign_ai_server/internal/logger"
	"campaign_ai_server/internal/session"
)

func main() {
	// --- Load .env file ---
	// Must happen before viper reads the environment.
	envErr := godotenv.Load()

	// --- Configuration Loading ---
	cfg, err := config.LoadConfig(".") // Load from config.yaml or env vars
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	zlog, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Cannot build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	switch {
	case envErr == nil:
		zlog.Info("loaded environment variables from .env file")
	case os.IsNotExist(envErr):
		zlog.Info(".env file not found, relying on system environment variables")
	default:
		zlog.Warn("error loading .env file", zap.Error(envErr))
	}
	cfg.Validate(zlog)

	// --- Dependency Initialization ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	generator := ai.NewGenerator(cfg.Generator(), nil, zlog)
	zlog.Info("campaign generator ready", zap.String("model", generator.Model()))

	sessions := session.NewMemoryStore(cfg.SessionTTL, zlog)

	var limiter gin.HandlerFunc
	if cfg.RedisURL != "" && cfg.RateLimitPerMinute > 0 {
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		rdb, err := db.NewRedisClient(pingCtx, cfg.RedisURL, zlog)
		pingCancel()
		if err != nil {
			// The service works without redis, only unthrottled.
			zlog.Warn("rate limiting disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			limiter = handlers.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute, zlog)
			zlog.Info("rate limiting enabled", zap.Int("per_minute", cfg.RateLimitPerMinute))
		}
	}

	apiHandler := handlers.NewAPIHandler(generator, sessions, zlog)

	// --- Start API Server ---
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handlers.RequestIDMiddleware())
	router.Use(handlers.LoggerMiddleware(zlog))

	api.RegisterRoutes(router, apiHandler, limiter)

	server := &http.Server{
		Addr:        cfg.ServerAddress,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// A generation may take up to AI_TIMEOUT; leave room to write the response.
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Info("starting API server", zap.String("addr", cfg.ServerAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("API server listen error", zap.Error(err))
		}
		zlog.Info("API server has stopped listening")
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zlog.Info("shutting down server", zap.String("signal", sig.String()))

	shutdownCtx, serverCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer serverCancel()

	cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("API server forced shutdown", zap.Error(err))
	} else {
		zlog.Info("API server gracefully stopped")
	}

	zlog.Info("application exiting")
}
