package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/storefront-catalog/internal/adapter/filestore"
	"github.com/user/storefront-catalog/internal/adapter/postgres"
	redis_adapter "github.com/user/storefront-catalog/internal/adapter/redis"
	"github.com/user/storefront-catalog/internal/delivery/http/handler"
	"github.com/user/storefront-catalog/internal/delivery/http/router"
	"github.com/user/storefront-catalog/internal/repository"
	"github.com/user/storefront-catalog/internal/usecase"
	"github.com/user/storefront-catalog/pkg/config"
	"github.com/user/storefront-catalog/pkg/logger"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not load config:", err)
		os.Exit(1)
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// --- Repositories ---
	catalogRepo := filestore.NewCatalogRepo(cfg.CatalogGeneratedPath, cfg.CatalogDefaultPath)

	// Redis is optional; without it every request reads the catalog file.
	var catalogCache repository.CatalogCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("unable to connect to redis", zap.Error(err))
		}
		catalogCache = redis_adapter.NewCatalogCache(rdb, cfg.CatalogGeneratedPath)
		log.Info("redis catalog cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	var syncRuns repository.SyncRunRepository
	if cfg.PostgresURL != "" {
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatal("unable to connect to database", zap.Error(err))
		}
		defer dbpool.Close()
		repo := postgres.NewSyncRunRepo(dbpool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal("unable to prepare database", zap.Error(err))
		}
		syncRuns = repo
		log.Info("postgres sync run history enabled")
	}

	// --- Use Cases ---
	storefront := usecase.NewStorefront(catalogRepo, catalogCache, cfg.CatalogCacheTTL(), log)
	admin := usecase.NewCatalogAdmin(catalogRepo, catalogCache, log)
	history := usecase.NewSyncHistory(syncRuns)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(storefront, admin, history, log)
	httpRouter := router.New(apiHandler, router.Options{
		PublicDir:      cfg.PublicDir,
		AllowedOrigins: cfg.AllowedOrigins(),
		AdminJWTSecret: cfg.AdminJWTSecret,
		Logger:         log,
	})
	if cfg.AdminJWTSecret == "" {
		log.Warn("ADMIN_JWT_SECRET is empty, admin routes are not protected")
	}

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("could not listen on port", zap.String("port", cfg.ServerPort), zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exiting")
}
