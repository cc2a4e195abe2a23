package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/storefront-catalog/internal/entity"
	"github.com/user/storefront-catalog/internal/repository"
	"github.com/user/storefront-catalog/internal/scraper"
	"github.com/user/storefront-catalog/pkg/metrics"
	"github.com/user/storefront-catalog/pkg/utils"
)

const (
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

const recordRunTimeout = 5 * time.Second

// Syncer rebuilds the generated catalog from the legacy storefront.
type Syncer interface {
	Run(ctx context.Context) (*entity.SyncRun, error)
}

// SyncDeps groups the collaborators of the sync batch. RunRepo and Cache are optional.
type SyncDeps struct {
	Fetcher   repository.PageFetcher
	Localizer ImageLocalizer
	Catalog   repository.CatalogRepository
	RunRepo   repository.SyncRunRepository
	Cache     repository.CatalogCache
	Rules     scraper.Rules
	Sources   []string
	Logger    *zap.Logger
}

type syncUseCase struct {
	SyncDeps
}

// NewSyncUseCase creates a new instance of the sync use case.
func NewSyncUseCase(deps SyncDeps) Syncer {
	return &syncUseCase{SyncDeps: deps}
}

// Run fetches every source page in order, then normalizes, localizes and writes the
// catalog. A page that cannot be fetched aborts the run before anything is written
// and is returned as a *repository.PageFetchError.
func (uc *syncUseCase) Run(ctx context.Context) (*entity.SyncRun, error) {
	run := &entity.SyncRun{
		StartedAt:  time.Now().UTC(),
		PageCounts: make(map[string]int, len(uc.Sources)),
	}
	defer func() {
		metrics.SyncDuration.Observe(time.Since(run.StartedAt).Seconds())
	}()

	products, err := uc.extractAll(ctx, run)
	if err != nil {
		uc.finish(ctx, run, err)
		return run, err
	}

	normalized := scraper.Normalize(products)

	stats, err := uc.Localizer.Localize(ctx, normalized)
	if err != nil {
		uc.finish(ctx, run, err)
		return run, err
	}
	run.PlaceholderCount = stats.Placeholder

	if err := ctx.Err(); err != nil {
		err = fmt.Errorf("sync interrupted before writing catalog: %w", err)
		uc.finish(ctx, run, err)
		return run, err
	}
	if err := uc.Catalog.ReplaceGenerated(ctx, normalized); err != nil {
		err = fmt.Errorf("failed to write catalog: %w", err)
		uc.finish(ctx, run, err)
		return run, err
	}
	run.ProductCount = len(normalized)
	metrics.SyncCatalogSize.Set(float64(len(normalized)))

	if uc.Cache != nil {
		if err := uc.Cache.Invalidate(ctx); err != nil {
			uc.Logger.Warn("failed to invalidate catalog cache", zap.Error(err))
		}
	}

	uc.Logger.Info("wrote products with localized images",
		zap.Int("products", len(normalized)),
		zap.Int("images_downloaded", stats.Downloaded),
		zap.Int("images_reused", stats.Reused),
		zap.Int("placeholders", stats.Placeholder),
	)
	uc.finish(ctx, run, nil)
	return run, nil
}

func (uc *syncUseCase) extractAll(ctx context.Context, run *entity.SyncRun) ([]entity.Product, error) {
	var all []entity.Product
	for _, url := range uc.Sources {
		page := utils.PageSlug(url)

		html, err := uc.Fetcher.Fetch(ctx, url)
		if err != nil {
			metrics.SyncPagesTotal.WithLabelValues(page, "failure").Inc()
			var pfe *repository.PageFetchError
			if !errors.As(err, &pfe) {
				err = &repository.PageFetchError{URL: url, Err: err}
			}
			return nil, err
		}
		metrics.SyncPagesTotal.WithLabelValues(page, "success").Inc()

		products := scraper.Extract(html, page, uc.Rules)
		run.PageCounts[page] = len(products)
		metrics.SyncProductsExtracted.WithLabelValues(page).Add(float64(len(products)))
		uc.Logger.Info("items parsed", zap.String("page", page), zap.Int("items", len(products)))

		all = append(all, products...)
	}
	return all, nil
}

// finish stamps the run and records it when a run repository is configured.
// Recording failures are logged and never change the outcome of the run. The run
// is recorded even when ctx is already cancelled.
func (uc *syncUseCase) finish(ctx context.Context, run *entity.SyncRun, runErr error) {
	run.FinishedAt = time.Now().UTC()
	run.Status = SyncStatusCompleted
	if runErr != nil {
		run.Status = SyncStatusFailed
		run.FailureReason = runErr.Error()
	}

	if uc.RunRepo == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordRunTimeout)
	defer cancel()
	if err := uc.RunRepo.Save(saveCtx, run); err != nil {
		uc.Logger.Warn("failed to record sync run", zap.Error(err))
	}
}

// ErrSyncHistoryDisabled is returned when no run repository is configured.
var ErrSyncHistoryDisabled = errors.New("sync run history is not configured")

// SyncHistory exposes recorded sync runs to the admin panel.
type SyncHistory interface {
	Latest(ctx context.Context) (*entity.SyncRun, error)
}

type syncHistoryUseCase struct {
	runRepo repository.SyncRunRepository
}

// NewSyncHistory creates a SyncHistory. runRepo may be nil.
func NewSyncHistory(runRepo repository.SyncRunRepository) SyncHistory {
	return &syncHistoryUseCase{runRepo: runRepo}
}

func (uc *syncHistoryUseCase) Latest(ctx context.Context) (*entity.SyncRun, error) {
	if uc.runRepo == nil {
		return nil, ErrSyncHistoryDisabled
	}
	return uc.runRepo.Latest(ctx)
}
