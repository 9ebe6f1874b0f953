package handler

import (
	"net/http"

	"mini-bookstore/internal/auth"
	"mini-bookstore/internal/model"
	"mini-bookstore/internal/service"

	"github.com/rs/zerolog"
)

// PurchaseHandler handles purchase history HTTP requests.
type PurchaseHandler struct {
	service service.PurchaseService
	logger  zerolog.Logger
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(service service.PurchaseService, logger zerolog.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		service: service,
		logger:  logger.With().Str("handler", "purchase").Logger(),
	}
}

// History handles GET /api/purchases/history requests.
func (h *PurchaseHandler) History(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.History(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Stats handles GET /api/purchases/stats requests.
func (h *PurchaseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.PurchaseStatsResponse{
		Message: "Purchase statistics retrieved successfully",
		Stats:   *stats,
	})
}
