package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	SyncPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_pages_total",
			Help: "Source pages fetched by the sync batch.",
		},
		[]string{"page", "status"}, // status: success, failure
	)

	SyncProductsExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_products_extracted_total",
			Help: "Products extracted per source page, before deduplication.",
		},
		[]string{"page"},
	)

	SyncImagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_images_total",
			Help: "Image localization outcomes.",
		},
		[]string{"outcome"}, // downloaded, reused, placeholder
	)

	SyncCatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_sync_products",
			Help: "Products written by the last sync run.",
		},
	)

	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_sync_duration_seconds",
			Help:    "Duration of sync runs.",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	CatalogCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_requests_total",
			Help: "Storefront catalog cache lookups.",
		},
		[]string{"result"}, // hit, miss, error
	)
)

// Push sends the default registry to a Prometheus Pushgateway under job.
func Push(url, job string) error {
	if err := push.New(url, job).Gatherer(prometheus.DefaultGatherer).Push(); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
