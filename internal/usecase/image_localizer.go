package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/user/storefront-catalog/internal/entity"
	"github.com/user/storefront-catalog/internal/repository"
	"github.com/user/storefront-catalog/pkg/metrics"
	"github.com/user/storefront-catalog/pkg/utils"
)

// ImageOptimizer rewrites image bytes before they are stored.
type ImageOptimizer interface {
	Optimize(data []byte, filename string) ([]byte, error)
}

// LocalizeStats counts the outcome of every product handled by a localization pass.
type LocalizeStats struct {
	Downloaded  int
	Reused      int
	Placeholder int
}

// ImageLocalizer replaces remote product images with stored copies.
type ImageLocalizer interface {
	Localize(ctx context.Context, products []entity.Product) (LocalizeStats, error)
}

type imageLocalizer struct {
	downloader  repository.ImageDownloader
	store       repository.ImageStore
	optimizer   ImageOptimizer
	placeholder string
	logger      *zap.Logger
}

// NewImageLocalizer creates a new ImageLocalizer. optimizer may be nil.
func NewImageLocalizer(
	downloader repository.ImageDownloader,
	store repository.ImageStore,
	optimizer ImageOptimizer,
	placeholder string,
	logger *zap.Logger,
) ImageLocalizer {
	return &imageLocalizer{
		downloader:  downloader,
		store:       store,
		optimizer:   optimizer,
		placeholder: placeholder,
		logger:      logger,
	}
}

// Localize rewrites the images of every product in place, so each ends up with
// exactly one image: a stored copy of its first remote image or the placeholder.
// A URL shared by several products is downloaded once per call. Download failures
// degrade only the product concerned. An error is returned when the store cannot
// be prepared or ctx is done, and the products must then be discarded.
func (l *imageLocalizer) Localize(ctx context.Context, products []entity.Product) (LocalizeStats, error) {
	var stats LocalizeStats
	if err := l.store.Prepare(ctx); err != nil {
		return stats, fmt.Errorf("failed to prepare image store: %w", err)
	}

	downloaded := make(map[string]string)
	for i := range products {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("image localization interrupted: %w", err)
		}
		p := &products[i]

		remote := ""
		if len(p.Images) > 0 {
			remote = p.Images[0]
		}
		if !utils.IsHTTPURL(remote) {
			l.usePlaceholder(p, &stats)
			continue
		}

		if public, ok := downloaded[remote]; ok {
			p.Images = []string{public}
			stats.Reused++
			metrics.SyncImagesTotal.WithLabelValues("reused").Inc()
			continue
		}

		public, err := l.localize(ctx, p.Slug, remote)
		if err != nil && ctx.Err() != nil {
			return stats, fmt.Errorf("image localization interrupted: %w", ctx.Err())
		}
		if err != nil {
			l.logger.Warn("image download failed, using placeholder",
				zap.String("slug", p.Slug),
				zap.String("url", remote),
				zap.Error(err),
			)
			l.usePlaceholder(p, &stats)
			continue
		}

		downloaded[remote] = public
		p.Images = []string{public}
		stats.Downloaded++
		metrics.SyncImagesTotal.WithLabelValues("downloaded").Inc()
	}
	return stats, nil
}

func (l *imageLocalizer) localize(ctx context.Context, slug, remote string) (string, error) {
	data, err := l.downloader.Download(ctx, remote)
	if err != nil {
		return "", err
	}

	filename := slug + imageExtension(remote)
	if l.optimizer != nil {
		if optimized, err := l.optimizer.Optimize(data, filename); err == nil {
			data = optimized
		} else {
			l.logger.Debug("storing image unoptimized", zap.String("file", filename), zap.Error(err))
		}
	}
	return l.store.Save(ctx, filename, data)
}

func (l *imageLocalizer) usePlaceholder(p *entity.Product, stats *LocalizeStats) {
	p.Images = []string{l.placeholder}
	stats.Placeholder++
	metrics.SyncImagesTotal.WithLabelValues("placeholder").Inc()
}

// imageExtension maps the URL path extension to the stored file extension.
func imageExtension(remote string) string {
	switch ext := utils.PathExt(remote); ext {
	case ".png", ".webp", ".avif":
		return ext
	default:
		return ".jpg"
	}
}
