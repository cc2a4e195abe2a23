package repository

import (
	"context"
	"time"

	"github.com/user/storefront-catalog/internal/entity"
)

// CatalogCache keeps a short-lived copy of the storefront catalog.
type CatalogCache interface {
	// Get returns the cached catalog and whether it was present.
	Get(ctx context.Context) ([]entity.Product, bool, error)
	// Version returns the invalidation counter. Read it before loading the catalog
	// and pass it to Set, which drops the write if an invalidation happened since.
	Version(ctx context.Context) (int64, error)
	Set(ctx context.Context, products []entity.Product, version int64, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}
