package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nwakalordivine/AgriEase-AI/internal/adapter/client"
	"github.com/nwakalordivine/AgriEase-AI/internal/adapter/http/router"
	"github.com/nwakalordivine/AgriEase-AI/internal/adapter/onnx"
	"github.com/nwakalordivine/AgriEase-AI/internal/adapter/storage"
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
	"github.com/nwakalordivine/AgriEase-AI/internal/infrastructure/cache"
	"github.com/nwakalordivine/AgriEase-AI/internal/infrastructure/config"
	"github.com/nwakalordivine/AgriEase-AI/internal/infrastructure/database"
	"github.com/nwakalordivine/AgriEase-AI/internal/infrastructure/logger"
	"github.com/nwakalordivine/AgriEase-AI/internal/infrastructure/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Connected to database")

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database migrations completed")

	// Initialize Redis (optional, continue without it)
	var redisCmd redis.Cmdable
	var weatherCache client.ResponseCache
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
		redisClient = nil
	} else {
		log.Info("Connected to Redis")
		redisCmd = redisClient
		weatherCache = cache.NewResponseCache(redisClient, "agri:")
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Classification chain
	if err := onnx.Init(cfg.Classifier.RuntimeLibrary); err != nil {
		log.Warn("ONNX runtime unavailable, local models disabled", zap.Error(err))
	}
	defer func() { _ = onnx.Shutdown() }()

	classifier, health, closeModels, err := buildClassifier(context.Background(), &cfg.Classifier, m, log)
	if err != nil {
		return fmt.Errorf("failed to build classifier: %w", err)
	}
	defer closeModels()

	// Upload storage
	store, uploadsDir, err := buildStorage(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage ready", zap.String("backend", cfg.Storage.Backend))

	advisor := client.NewAdviceClient(cfg.Advice.BaseURL, cfg.Advice.APIKey, cfg.Advice.Model, cfg.Advice.Timeout, m, log)
	if cfg.Advice.APIKey == "" {
		log.Warn("Advice API key missing, generated text will be a placeholder")
	}
	weather := client.NewWeatherClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.Timeout, weatherCache, cfg.Weather.CacheTTL, log)

	// Setup router
	r := router.Setup(router.Deps{
		DB:              db,
		Redis:           redisCmd,
		Logger:          log,
		Classifier:      classifier,
		Storage:         store,
		Advisor:         advisor,
		Weather:         weather,
		Metrics:         m,
		MaxUploadBytes:  cfg.Server.MaxUploadMB << 20,
		AdviceMaxTokens: cfg.Advice.MaxTokens,
		UploadsDir:      uploadsDir,
		HealthChecks:    health,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Starting server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close database connection
	if sqlDB, err := db.DB(); err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}

	// Close Redis connection
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("Server exited")
	return nil
}

func buildStorage(ctx context.Context, cfg *config.Config) (service.ObjectStorage, string, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendS3:
		s3cfg := cfg.Storage.S3
		store, err := storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:          s3cfg.Bucket,
			Region:          s3cfg.Region,
			Endpoint:        s3cfg.Endpoint,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
			UsePathStyle:    s3cfg.UsePathStyle,
			PublicBaseURL:   s3cfg.PublicBaseURL,
		})
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	case config.StorageBackendLocal, "":
		base := strings.TrimSuffix(cfg.Server.PublicURL, "/") + "/uploads"
		store, err := storage.NewLocalStorage(cfg.Storage.LocalDir, base)
		if err != nil {
			return nil, "", err
		}
		return store, store.Dir(), nil
	default:
		return nil, "", fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
