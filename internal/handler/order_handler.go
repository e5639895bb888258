package handler

import (
	"net/http"

	"mediplus/internal/middleware"
	"mediplus/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler serves local order receipts and the caller's backend order history.
type OrderHandler struct {
	receipts service.ReceiptService
	auth     service.AuthService
	logger   zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(receipts service.ReceiptService, auth service.AuthService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		receipts: receipts,
		auth:     auth,
		logger:   logger.With().Str("handler", "order").Logger(),
	}
}

// GetByID handles GET /api/orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	receipt, err := h.receipts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, receipt)
}

// MyOrders handles GET /api/orders.
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.auth.MyOrders(r.Context(), middleware.TokenFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}
