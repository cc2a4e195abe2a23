package repository

import "context"

// PageFetcher retrieves the raw HTML of a source page.
type PageFetcher interface {
	// Fetch returns the document body. Any transport failure or non-success
	// status is reported as a *PageFetchError.
	Fetch(ctx context.Context, url string) (string, error)
}
