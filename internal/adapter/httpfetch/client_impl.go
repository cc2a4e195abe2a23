package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/user/storefront-catalog/internal/repository"
)

const maxBodyBytes = 32 << 20

// Client fetches source pages and images over plain HTTP. Requests are paced by a
// shared limiter.
type Client struct {
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewClient creates a Client. A ratePerSecond of zero or less disables pacing.
func NewClient(userAgent string, timeout time.Duration, ratePerSecond float64, logger *zap.Logger) *Client {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
	}
}

var (
	_ repository.PageFetcher     = (*Client)(nil)
	_ repository.ImageDownloader = (*Client)(nil)
)

// Fetch returns the HTML of a source page.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	body, status, err := c.get(ctx, url, "text/html,application/xhtml+xml")
	if err != nil {
		return "", &repository.PageFetchError{URL: url, Err: err}
	}
	if status < 200 || status > 299 {
		return "", &repository.PageFetchError{URL: url, StatusCode: status, Err: &repository.StatusError{StatusCode: status}}
	}
	return string(body), nil
}

// Download returns the bytes of a remote image.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	body, status, err := c.get(ctx, url, "image/*")
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &repository.StatusError{StatusCode: status}
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, url, accept string) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read body: %w", err)
	}
	c.logger.Debug("fetched",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return body, resp.StatusCode, nil
}
