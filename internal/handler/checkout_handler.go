package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"mediplus/internal/middleware"
	"mediplus/internal/model"
	"mediplus/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxPrescriptionBytes bounds the multipart form on order placement.
const maxPrescriptionBytes = 10 << 20

var errPrescriptionTooLarge = model.NewDomainError(model.ErrCodeInvalidJSON, "Prescription file is too large")

// CheckoutHandler handles checkout wizard requests.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Start handles POST /api/checkouts.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req model.StartCheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if req.CartID == uuid.Nil {
		writeError(w, r, model.MissingFieldError("Cart ID"), h.logger)
		return
	}

	co, err := h.service.Start(r.Context(), req.CartID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, co)
}

// Get handles GET /api/checkouts/{id}.
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Get)
}

// SubmitDelivery handles PUT /api/checkouts/{id}/delivery.
func (h *CheckoutHandler) SubmitDelivery(w http.ResponseWriter, r *http.Request) {
	var info model.DeliveryInfo
	if err := decodeJSON(r, &info); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	h.respond(w, r, func(ctx context.Context, id uuid.UUID) (*model.Checkout, error) {
		return h.service.SubmitDelivery(ctx, id, info)
	})
}

// SelectMethod handles PUT /api/checkouts/{id}/payment-method.
func (h *CheckoutHandler) SelectMethod(w http.ResponseWriter, r *http.Request) {
	var req model.SelectPaymentMethodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	h.respond(w, r, func(ctx context.Context, id uuid.UUID) (*model.Checkout, error) {
		return h.service.SelectMethod(ctx, id, req.Method)
	})
}

// Next handles POST /api/checkouts/{id}/next.
func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Next)
}

// Back handles POST /api/checkouts/{id}/back.
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Back)
}

// Place handles POST /api/checkouts/{id}/place. The body may be multipart
// with a "prescription" file. It answers 202 while a payment is pending.
func (h *CheckoutHandler) Place(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var upload *model.Upload
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxPrescriptionBytes)
		if err := r.ParseMultipartForm(maxPrescriptionBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, r, errPrescriptionTooLarge, h.logger)
				return
			}
			writeError(w, r, errInvalidJSON, h.logger)
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		file, header, err := r.FormFile("prescription")
		switch {
		case err == nil:
			defer file.Close()
			upload = &model.Upload{Filename: header.Filename, Content: file}
		case !errors.Is(err, http.ErrMissingFile):
			writeError(w, r, errInvalidJSON, h.logger)
			return
		}
	}

	co, err := h.service.Place(r.Context(), id, middleware.TokenFromContext(r.Context()), upload)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	status := http.StatusOK
	if co.AwaitingPayment {
		status = http.StatusAccepted
	}
	writeJSON(w, status, co)
}

func (h *CheckoutHandler) respond(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (*model.Checkout, error)) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	co, err := fn(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, co)
}
