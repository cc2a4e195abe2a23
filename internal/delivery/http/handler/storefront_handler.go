package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/storefront-catalog/internal/usecase"
)

// HandleListProducts serves GET /api/products?categoria=&featured=.
func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := usecase.ProductFilter{
		Section:      q.Get("categoria"),
		FeaturedOnly: q.Get("featured") == "true",
	}

	products, err := h.storefront.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleSearchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.storefront.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("failed to search products", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.storefront.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, usecase.ErrProductNotFound) {
			h.writeJSONError(w, "Product not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load product", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}
