package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/user/storefront-catalog/internal/delivery/http/handler"
	"github.com/user/storefront-catalog/internal/delivery/http/middleware"
)

// Options configures the outer surface of the API.
type Options struct {
	PublicDir      string
	AllowedOrigins []string
	AdminJWTSecret string
	Logger         *zap.Logger
}

func New(h *handler.Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(opts.Logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}).Handler)

	r.Get("/api/health", h.HandleHealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second))

		r.Get("/products", h.HandleListProducts)
		r.Get("/products/search", h.HandleSearchProducts)
		r.Get("/products/{slug}", h.HandleGetProduct)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminAuth(opts.AdminJWTSecret))

			r.Get("/products", h.HandleAdminListProducts)
			r.Post("/products", h.HandleAdminCreateProduct)
			r.Put("/products", h.HandleAdminUpdateProduct)
			r.Put("/products/{id}", h.HandleAdminUpdateProduct)
			r.Delete("/products", h.HandleAdminDeleteProduct)
			r.Delete("/products/{id}", h.HandleAdminDeleteProduct)
			r.Post("/products/order", h.HandleAdminReorderProducts)
			r.Get("/sync-runs/latest", h.HandleLatestSyncRun)
		})
	})

	// Localized images and the placeholder live in the public directory.
	if opts.PublicDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.PublicDir)))
	}

	return r
}
