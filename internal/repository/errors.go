package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup has no result.
var ErrNotFound = errors.New("not found")

// PageFetchError describes a source page that could not be retrieved.
type PageFetchError struct {
	URL        string
	StatusCode int // zero when the request never got a response
	Err        error
}

func (e *PageFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed %s: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed %s: %v", e.URL, e.Err)
}

func (e *PageFetchError) Unwrap() error { return e.Err }

// StatusError reports a non-success HTTP response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}
