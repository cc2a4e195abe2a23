package filestore

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/user/storefront-catalog/internal/repository"
)

// ImageStoreImpl writes localized images under the public directory served by the API.
type ImageStoreImpl struct {
	dir    string
	prefix string
}

// NewImageStore stores files in publicDir/subdir and serves them from /subdir.
func NewImageStore(publicDir, subdir string) *ImageStoreImpl {
	return &ImageStoreImpl{
		dir:    filepath.Join(publicDir, subdir),
		prefix: path.Join("/", subdir),
	}
}

var _ repository.ImageStore = (*ImageStoreImpl)(nil)

func (s *ImageStoreImpl) Prepare(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create image dir: %w", err)
	}
	return nil
}

// Save writes data to the image directory, overwriting an existing file.
func (s *ImageStoreImpl) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save image %s: %w", filename, err)
	}
	return path.Join(s.prefix, filename), nil
}
