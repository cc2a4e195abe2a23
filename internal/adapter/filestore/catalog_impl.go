package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/storefront-catalog/internal/entity"
	"github.com/user/storefront-catalog/internal/repository"
)

// CatalogRepoImpl stores the catalog as a JSON array on disk. The generated file
// written by the sync batch takes precedence over the seed file.
type CatalogRepoImpl struct {
	generatedPath string
	defaultPath   string
	mu            sync.Mutex
}

// NewCatalogRepo creates a new instance of CatalogRepoImpl.
func NewCatalogRepo(generatedPath, defaultPath string) *CatalogRepoImpl {
	return &CatalogRepoImpl{generatedPath: generatedPath, defaultPath: defaultPath}
}

var _ repository.CatalogRepository = (*CatalogRepoImpl)(nil)

// Load returns the generated catalog when it parses and is not empty, then the
// seed catalog, then an empty catalog.
func (r *CatalogRepoImpl) Load(ctx context.Context) ([]entity.Product, error) {
	if products, ok := readCatalogFile(r.generatedPath); ok && len(products) > 0 {
		return products, nil
	}
	if products, ok := readCatalogFile(r.defaultPath); ok {
		return products, nil
	}
	return []entity.Product{}, nil
}

// LoadEditable returns the file admin mutations apply to and its content.
func (r *CatalogRepoImpl) LoadEditable(ctx context.Context) (string, []entity.Product, error) {
	path, products := r.editable()
	return path, products, nil
}

// Mutate applies fn to the editable catalog and persists the result. Concurrent
// mutations on the same repo are serialized.
func (r *CatalogRepoImpl) Mutate(ctx context.Context, fn repository.MutateFunc) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, products := r.editable()
	next, err := fn(products)
	if err != nil {
		return nil, err
	}
	if err := writeCatalogFile(path, next); err != nil {
		return nil, err
	}
	return next, nil
}

// ReplaceGenerated overwrites the generated catalog.
func (r *CatalogRepoImpl) ReplaceGenerated(ctx context.Context, products []entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeCatalogFile(r.generatedPath, products)
}

// editable picks the generated file if it parses, else the seed file if it parses,
// else the generated file with an empty catalog. An empty generated array still
// wins here, unlike Load.
func (r *CatalogRepoImpl) editable() (string, []entity.Product) {
	if products, ok := readCatalogFile(r.generatedPath); ok {
		return r.generatedPath, products
	}
	if products, ok := readCatalogFile(r.defaultPath); ok {
		return r.defaultPath, products
	}
	return r.generatedPath, []entity.Product{}
}

// readCatalogFile reports false when the file is missing or is not a JSON array.
func readCatalogFile(path string) ([]entity.Product, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, false
	}
	var products []entity.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false
	}
	if products == nil {
		products = []entity.Product{}
	}
	return products, true
}

// writeCatalogFile writes products as a two-space indented array terminated by a
// newline. The file is replaced atomically.
func writeCatalogFile(path string, products []entity.Product) error {
	if products == nil {
		products = []entity.Product{}
	}
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create catalog dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp catalog: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace catalog %s: %w", path, err)
	}
	return nil
}
