package repository

import "context"

// ImageDownloader fetches the bytes of a remote image.
type ImageDownloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// ImageStore persists localized images and returns the public path they are served from.
type ImageStore interface {
	// Prepare makes sure the destination exists before the first Save.
	Prepare(ctx context.Context) error
	// Save stores data under filename, replacing any previous content.
	Save(ctx context.Context, filename string, data []byte) (string, error)
}
