package chromedp_crawler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/storefront-catalog/internal/repository"
)

// ChromedpFetcher retrieves source pages through a headless browser, for
// storefronts that render their gallery client side.
type ChromedpFetcher struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	timeout     time.Duration
	mu          sync.Mutex
	logger      *zap.Logger
}

// NewChromedpFetcher starts a browser allocator shared by every Fetch call.
func NewChromedpFetcher(userAgent string, pageLoadTimeout time.Duration, logger *zap.Logger) *ChromedpFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpFetcher{
		allocCtx:    allocCtx,
		cancelAlloc: cancel,
		timeout:     pageLoadTimeout,
		logger:      logger,
	}
}

var _ repository.PageFetcher = (*ChromedpFetcher)(nil)

// Fetch navigates to url and returns the rendered document.
func (c *ChromedpFetcher) Fetch(ctx context.Context, url string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	taskCtx, cancel := chromedp.NewContext(c.allocCtx, chromedp.WithLogf(c.logger.Sugar().Debugf))
	defer cancel()

	taskCtx, cancel = context.WithTimeout(taskCtx, c.timeout)
	defer cancel()

	// The caller's context still applies while the browser task runs.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	start := time.Now()
	resp, err := chromedp.RunResponse(taskCtx,
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "es-CO,es;q=0.9"}),
		chromedp.Navigate(url),
	)
	if err != nil {
		return "", &repository.PageFetchError{URL: url, Err: err}
	}
	if resp != nil && (resp.Status < 200 || resp.Status > 299) {
		status := int(resp.Status)
		return "", &repository.PageFetchError{URL: url, StatusCode: status, Err: &repository.StatusError{StatusCode: status}}
	}

	var html string
	if err := chromedp.Run(taskCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", &repository.PageFetchError{URL: url, Err: fmt.Errorf("failed to read document: %w", err)}
	}

	c.logger.Debug("rendered page",
		zap.String("url", url),
		zap.Duration("duration", time.Since(start)),
	)
	return html, nil
}

// Close shuts the browser down.
func (c *ChromedpFetcher) Close() {
	c.cancelAlloc()
}
