package handler

import (
	"net/http"

	"mini-bookstore/internal/auth"
	"mini-bookstore/internal/model"
	"mini-bookstore/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartHandler handles cart and checkout HTTP requests.
type CartHandler struct {
	cart     service.CartService
	checkout service.CheckoutService
	orders   service.OrderService
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cart service.CartService, checkout service.CheckoutService, orders service.OrderService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		cart:     cart,
		checkout: checkout,
		orders:   orders,
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

// List handles GET /api/cart requests.
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	lines, err := h.cart.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.CartResponse{Items: lines})
}

// Add handles POST /api/cart/add requests.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req model.AddCartLineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	line, err := h.cart.Add(r.Context(), auth.UserID(r.Context()), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, model.CartLineResponse{Item: *line})
}

// Remove handles DELETE /api/cart/{itemId} requests.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		// An id that cannot exist is reported like any other missing line.
		writeServiceError(w, r, model.ErrCartItemNotFound, h.logger)
		return
	}

	if err := h.cart.Remove(r.Context(), auth.UserID(r.Context()), id); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
}

// Checkout handles POST /api/cart/checkout requests.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	order, err := h.checkout.Checkout(r.Context(), auth.UserID(r.Context()), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.CheckoutResponse{Message: "Order placed successfully", Order: order})
}

// Purchased handles GET /api/cart/admin/purchased requests.
func (h *CartHandler) Purchased(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.AdminOrdersResponse{Orders: orders})
}
