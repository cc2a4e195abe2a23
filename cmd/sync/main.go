package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/storefront-catalog/internal/adapter/chromedp_crawler"
	"github.com/user/storefront-catalog/internal/adapter/filestore"
	"github.com/user/storefront-catalog/internal/adapter/httpfetch"
	"github.com/user/storefront-catalog/internal/adapter/imageopt"
	"github.com/user/storefront-catalog/internal/adapter/objectstore"
	"github.com/user/storefront-catalog/internal/adapter/postgres"
	redis_adapter "github.com/user/storefront-catalog/internal/adapter/redis"
	"github.com/user/storefront-catalog/internal/entity"
	"github.com/user/storefront-catalog/internal/repository"
	"github.com/user/storefront-catalog/internal/scraper"
	"github.com/user/storefront-catalog/internal/usecase"
	"github.com/user/storefront-catalog/pkg/config"
	"github.com/user/storefront-catalog/pkg/logger"
	"github.com/user/storefront-catalog/pkg/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not load config:", err)
		return 1
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := buildDeps(ctx, cfg, log)
	if err != nil {
		log.Error("sync setup failed", zap.Error(err))
		return 1
	}
	defer cleanup()

	syncRun, err := usecase.NewSyncUseCase(deps).Run(ctx)

	if cfg.PushgatewayURL != "" {
		if err := metrics.Push(cfg.PushgatewayURL, "catalog_sync"); err != nil {
			log.Warn("failed to push metrics", zap.Error(err))
		}
	}

	if err != nil {
		log.Error("sync failed", zap.Error(err))
		return 1
	}
	log.Info("sync completed",
		zap.Int("products", syncRun.ProductCount),
		zap.String("path", cfg.CatalogGeneratedPath),
	)
	return 0
}

func buildDeps(ctx context.Context, cfg *config.Config, log *zap.Logger) (usecase.SyncDeps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (usecase.SyncDeps, func(), error) {
		cleanup()
		return usecase.SyncDeps{}, func() {}, err
	}

	rules := scraper.DefaultRules()
	unmatched := entity.Category(cfg.UnmatchedCategory)
	if !unmatched.Valid() {
		return fail(fmt.Errorf("invalid UNMATCHED_CATEGORY %q", cfg.UnmatchedCategory))
	}
	rules.UnmatchedCategory = unmatched

	client := httpfetch.NewClient(cfg.UserAgent, cfg.HTTPTimeout(), cfg.DownloadRatePerSecond, log)

	var fetcher repository.PageFetcher = client
	if cfg.FetchMode == "browser" {
		browser := chromedp_crawler.NewChromedpFetcher(cfg.UserAgent, cfg.HTTPTimeout(), log)
		closers = append(closers, browser.Close)
		fetcher = browser
	}

	var store repository.ImageStore
	switch cfg.ImageStore {
	case "minio":
		s, err := objectstore.NewMinioImageStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
			cfg.MinioBucket, cfg.MinioUseSSL, cfg.MinioPublicURL, log)
		if err != nil {
			return fail(err)
		}
		store = s
	default:
		store = filestore.NewImageStore(cfg.PublicDir, cfg.ImagesSubdir)
	}

	var optimizer usecase.ImageOptimizer
	if cfg.ImageMaxDimension > 0 {
		optimizer = imageopt.NewOptimizer(cfg.ImageMaxDimension)
	}

	deps := usecase.SyncDeps{
		Fetcher:   fetcher,
		Localizer: usecase.NewImageLocalizer(client, store, optimizer, cfg.PlaceholderImage, log),
		Catalog:   filestore.NewCatalogRepo(cfg.CatalogGeneratedPath, cfg.CatalogDefaultPath),
		Rules:     rules,
		Sources:   cfg.Sources(),
		Logger:    log,
	}

	if cfg.PostgresURL != "" {
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return fail(fmt.Errorf("unable to connect to database: %w", err))
		}
		closers = append(closers, dbpool.Close)
		repo := postgres.NewSyncRunRepo(dbpool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fail(err)
		}
		deps.RunRepo = repo
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		closers = append(closers, func() { rdb.Close() })
		deps.Cache = redis_adapter.NewCatalogCache(rdb, cfg.CatalogGeneratedPath)
	}

	return deps, cleanup, nil
}
