package repository

import (
	"context"

	"github.com/user/storefront-catalog/internal/entity"
)

// MutateFunc receives the current editable catalog and returns the catalog to persist.
// Returning an error aborts the mutation without writing anything.
type MutateFunc func(products []entity.Product) ([]entity.Product, error)

// CatalogRepository defines access to the catalog document shared by the storefront,
// the admin panel and the synchronization batch.
type CatalogRepository interface {
	// Load returns the catalog served to shoppers.
	Load(ctx context.Context) ([]entity.Product, error)
	// LoadEditable returns the catalog the admin panel edits, along with its location.
	LoadEditable(ctx context.Context) (string, []entity.Product, error)
	// Mutate performs a serialized read-modify-write over the editable catalog.
	Mutate(ctx context.Context, fn MutateFunc) ([]entity.Product, error)
	// ReplaceGenerated overwrites the generated catalog with products.
	ReplaceGenerated(ctx context.Context, products []entity.Product) error
}
