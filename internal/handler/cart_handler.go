package handler

import (
	"context"
	"net/http"

	"mediplus/internal/model"
	"mediplus/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartHandler handles cart and coupon requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Create handles POST /api/carts.
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Create(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /api/carts/{id}.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Get)
}

// AddItem handles POST /api/carts/{id}/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req model.AddItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	h.respond(w, r, func(ctx context.Context, id uuid.UUID) (*model.CartResponse, error) {
		return h.service.AddItem(ctx, id, req)
	})
}

// Clear handles DELETE /api/carts/{id}/items.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Clear)
}

// Increase handles POST /api/carts/{id}/items/{itemId}/increase.
func (h *CartHandler) Increase(w http.ResponseWriter, r *http.Request) {
	h.respondItem(w, r, h.service.Increase)
}

// Decrease handles POST /api/carts/{id}/items/{itemId}/decrease.
func (h *CartHandler) Decrease(w http.ResponseWriter, r *http.Request) {
	h.respondItem(w, r, h.service.Decrease)
}

// Remove handles DELETE /api/carts/{id}/items/{itemId}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.respondItem(w, r, h.service.Remove)
}

// ApplyCoupon handles PUT /api/carts/{id}/coupon.
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req model.ApplyCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	h.respond(w, r, func(ctx context.Context, id uuid.UUID) (*model.CartResponse, error) {
		return h.service.ApplyCoupon(ctx, id, req.Code)
	})
}

// RemoveCoupon handles DELETE /api/carts/{id}/coupon.
func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.RemoveCoupon)
}

// Coupons handles GET /api/coupons.
func (h *CartHandler) Coupons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Coupons())
}

func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (*model.CartResponse, error)) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	resp, err := fn(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) respondItem(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID, string) (*model.CartResponse, error)) {
	itemID := chi.URLParam(r, "itemId")
	h.respond(w, r, func(ctx context.Context, id uuid.UUID) (*model.CartResponse, error) {
		return fn(ctx, id, itemID)
	})
}
