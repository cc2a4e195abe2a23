package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/storefront-catalog/internal/delivery/http/request"
	"github.com/user/storefront-catalog/internal/delivery/http/response"
	"github.com/user/storefront-catalog/internal/entity"
	"github.com/user/storefront-catalog/internal/repository"
	"github.com/user/storefront-catalog/internal/usecase"
)

const (
	msgSlugConflict  = "Ya existe un producto con ese slug."
	msgNotFound      = "Producto no encontrado."
	msgMissingID     = "Falta el id."
	msgMissingIDs    = "Falta el arreglo de ids."
	msgCreateFailed  = "No se pudo crear el producto."
	msgUpdateFailed  = "No se pudo actualizar el producto."
	msgDeleteFailed  = "No se pudo eliminar el producto."
	msgReorderFailed = "No se pudo guardar el orden de productos."
)

func (h *Handler) HandleAdminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.admin.List(r.Context())
	if err != nil {
		h.logger.Error("failed to load editable catalog", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleAdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var in entity.ProductInput
	if err := h.decodeJSON(w, r, &in); err != nil {
		h.writeJSONError(w, msgCreateFailed, http.StatusBadRequest)
		return
	}

	product, err := h.admin.Create(r.Context(), in)
	if err != nil {
		h.writeAdminError(w, err, msgCreateFailed)
		return
	}
	h.writeJSON(w, http.StatusCreated, product)
}

// HandleAdminUpdateProduct serves PUT with the id in the body or in the path.
// A path id overrides the body.
func (h *Handler) HandleAdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in entity.ProductInput
	if err := h.decodeJSON(w, r, &in); err != nil {
		h.writeJSONError(w, msgUpdateFailed, http.StatusBadRequest)
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		in.ID = &id
	}

	product, err := h.admin.Update(r.Context(), in)
	if err != nil {
		h.writeAdminError(w, err, msgUpdateFailed)
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}

// HandleAdminDeleteProduct serves DELETE with {"id"} in the body or the id in the path.
func (h *Handler) HandleAdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		var req request.DeleteProductRequest
		if err := h.decodeJSON(w, r, &req); err != nil {
			h.writeJSONError(w, msgDeleteFailed, http.StatusBadRequest)
			return
		}
		id = req.ID
	}

	if err := h.admin.Delete(r.Context(), id); err != nil {
		h.writeAdminError(w, err, msgDeleteFailed)
		return
	}
	h.writeJSON(w, http.StatusOK, response.DeleteResponse{OK: true})
}

func (h *Handler) HandleAdminReorderProducts(w http.ResponseWriter, r *http.Request) {
	var req request.ReorderProductsRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeJSONError(w, msgReorderFailed, http.StatusBadRequest)
		return
	}
	if req.IDs == nil {
		h.writeJSONError(w, msgMissingIDs, http.StatusBadRequest)
		return
	}

	products, err := h.admin.Reorder(r.Context(), req.IDs)
	if err != nil {
		h.writeAdminError(w, err, msgReorderFailed)
		return
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleLatestSyncRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.history.Latest(r.Context())
	switch {
	case errors.Is(err, usecase.ErrSyncHistoryDisabled):
		h.writeJSONError(w, "Historial de sincronización no configurado.", http.StatusNotFound)
	case errors.Is(err, repository.ErrNotFound):
		h.writeJSONError(w, "Aún no hay sincronizaciones registradas.", http.StatusNotFound)
	case err != nil:
		h.logger.Error("failed to load latest sync run", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
	default:
		h.writeJSON(w, http.StatusOK, response.NewSyncRunResponse(run))
	}
}

func (h *Handler) writeAdminError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrSlugConflict):
		h.writeJSONError(w, msgSlugConflict, http.StatusConflict)
	case errors.Is(err, usecase.ErrProductNotFound):
		h.writeJSONError(w, msgNotFound, http.StatusNotFound)
	case errors.Is(err, usecase.ErrMissingID):
		h.writeJSONError(w, msgMissingID, http.StatusBadRequest)
	default:
		h.logger.Error("admin catalog operation failed", zap.Error(err))
		h.writeJSONError(w, fallback, http.StatusBadRequest)
	}
}
