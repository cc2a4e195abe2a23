package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/user/storefront-catalog/internal/delivery/http/response"
	"github.com/user/storefront-catalog/internal/usecase"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	storefront usecase.Storefront
	admin      usecase.CatalogAdmin
	history    usecase.SyncHistory
	logger     *zap.Logger
}

func NewHandler(storefront usecase.Storefront, admin usecase.CatalogAdmin, history usecase.SyncHistory, logger *zap.Logger) *Handler {
	return &Handler{
		storefront: storefront,
		admin:      admin,
		history:    history,
		logger:     logger,
	}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.MessageResponse{Message: message})
}
