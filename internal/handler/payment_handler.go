package handler

import (
	"net/http"

	"mini-bookstore/internal/auth"
	"mini-bookstore/internal/model"
	"mini-bookstore/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// PaymentHandler handles UPI payment and refund HTTP requests.
type PaymentHandler struct {
	payments service.PaymentService
	orders   service.OrderService
	logger   zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(payments service.PaymentService, orders service.OrderService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		orders:   orders,
		logger:   logger.With().Str("handler", "payment").Logger(),
	}
}

// Initiate handles POST /api/payments/upi/initiate requests.
func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req model.InitiatePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	resp, err := h.payments.Initiate(r.Context(), auth.UserID(r.Context()), req.UPIID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Verify handles POST /api/payments/upi/verify requests.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req model.VerifyPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if req.TransactionID == "" {
		writeServiceError(w, r, model.ErrPaymentNotFound.WithMessage("Transaction ID is required"), h.logger)
		return
	}

	resp, err := h.payments.Verify(r.Context(), auth.UserID(r.Context()), req.TransactionID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Callback handles POST /api/payments/upi/callback requests from the gateway.
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var cb model.PaymentCallback
	if err := decodeJSON(r, &cb); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	resp, err := h.payments.Callback(r.Context(), cb)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Status handles GET /api/payments/status/{transactionId} requests.
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	resp, err := h.payments.Status(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "transactionId"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Refund handles POST /api/payments/refund requests.
func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	var req model.RefundRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	isAdmin := false
	if claims, ok := auth.FromContext(r.Context()); ok {
		isAdmin = claims.IsAdmin()
	}

	refund, err := h.orders.Refund(r.Context(), auth.UserID(r.Context()), isAdmin, &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, refund)
}
