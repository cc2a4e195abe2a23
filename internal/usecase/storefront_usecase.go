package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"

	"github.com/user/storefront-catalog/internal/entity"
	"github.com/user/storefront-catalog/internal/repository"
	"github.com/user/storefront-catalog/internal/scraper"
	"github.com/user/storefront-catalog/pkg/metrics"
)

const searchLimit = 12

// storefrontSections maps the public section names to the categories they show.
var storefrontSections = map[string][]entity.Category{
	"tecnologia": {entity.CategoryTechnology},
	"ropa":       {entity.CategoryClothing, entity.CategoryShoes},
	"bicicletas": {entity.CategoryBikes},
}

// ProductFilter narrows the storefront listing. An unknown section shows the
// whole catalog.
type ProductFilter struct {
	Section      string
	FeaturedOnly bool
}

// Storefront defines the read operations used by the shop.
type Storefront interface {
	List(ctx context.Context, filter ProductFilter) ([]entity.Product, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Product, error)
	Search(ctx context.Context, query string) ([]entity.Product, error)
}

type storefrontUseCase struct {
	catalog  repository.CatalogRepository
	cache    repository.CatalogCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewStorefront creates a new Storefront use case. cache may be nil.
func NewStorefront(catalog repository.CatalogRepository, cache repository.CatalogCache, cacheTTL time.Duration, logger *zap.Logger) Storefront {
	return &storefrontUseCase{catalog: catalog, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (uc *storefrontUseCase) List(ctx context.Context, filter ProductFilter) ([]entity.Product, error) {
	products, err := uc.visible(ctx)
	if err != nil {
		return nil, err
	}

	categories := storefrontSections[strings.ToLower(strings.TrimSpace(filter.Section))]
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if filter.FeaturedOnly && !p.Featured {
			continue
		}
		if categories != nil && !containsCategory(categories, p.Category) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (uc *storefrontUseCase) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	products, err := uc.visible(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

// Search matches the query against names and descriptions ignoring case and
// accents, then tops the results up with fuzzy name matches.
func (uc *storefrontUseCase) Search(ctx context.Context, query string) ([]entity.Product, error) {
	term := scraper.FoldAccents(strings.TrimSpace(query))
	if term == "" {
		return []entity.Product{}, nil
	}

	products, err := uc.visible(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]entity.Product, 0, searchLimit)
	matched := make(map[int]bool)
	for i, p := range products {
		if len(results) == searchLimit {
			return results, nil
		}
		if strings.Contains(scraper.FoldAccents(p.Name), term) || strings.Contains(scraper.FoldAccents(p.Description), term) {
			results = append(results, p)
			matched[i] = true
		}
	}
	for i, p := range products {
		if len(results) == searchLimit {
			break
		}
		if !matched[i] && fuzzy.Match(term, scraper.FoldAccents(p.Name)) {
			results = append(results, p)
		}
	}
	return results, nil
}

// visible returns the catalog without drafts.
func (uc *storefrontUseCase) visible(ctx context.Context) ([]entity.Product, error) {
	products, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if !p.Draft {
			out = append(out, p)
		}
	}
	return out, nil
}

func (uc *storefrontUseCase) load(ctx context.Context) ([]entity.Product, error) {
	if uc.cache == nil {
		return uc.catalog.Load(ctx)
	}

	products, ok, err := uc.cache.Get(ctx)
	switch {
	case err != nil:
		metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
		uc.logger.Warn("catalog cache read failed", zap.Error(err))
	case ok:
		metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
		return products, nil
	default:
		metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
	}

	version, versionErr := uc.cache.Version(ctx)
	products, err = uc.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	if versionErr != nil {
		uc.logger.Warn("catalog cache version read failed", zap.Error(versionErr))
		return products, nil
	}
	if err := uc.cache.Set(ctx, products, version, uc.cacheTTL); err != nil {
		uc.logger.Warn("catalog cache write failed", zap.Error(err))
	}
	return products, nil
}

func containsCategory(categories []entity.Category, c entity.Category) bool {
	for _, known := range categories {
		if known == c {
			return true
		}
	}
	return false
}
