package handler

import (
	"net/http"

	"mini-bookstore/internal/model"
	"mini-bookstore/internal/service"

	"github.com/rs/zerolog"
)

// ReportHandler handles sales report HTTP requests.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("handler", "report").Logger(),
	}
}

// TopSelling handles GET /api/reports/top-selling requests.
func (h *ReportHandler) TopSelling(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.TopSelling(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	message := "Top-selling books retrieved successfully"
	if len(report.Books) == 0 {
		message = "No books sold this month"
	}

	books := report.Books
	if books == nil {
		books = []model.TopSellingBook{}
	}

	writeJSON(w, http.StatusOK, model.TopSellingResponse{
		Message: message,
		Month:   report.Month,
		Books:   books,
	})
}

// Archive handles POST /api/reports/top-selling/archive requests.
func (h *ReportHandler) Archive(w http.ResponseWriter, r *http.Request) {
	location, err := h.service.ArchiveTopSelling(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, model.ArchiveResponse{Key: location})
}
