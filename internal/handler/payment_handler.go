package handler

import (
	"context"
	"net/http"
	"strconv"

	"mediplus/internal/model"
	"mediplus/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentHandler handles the simulated payment flow.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

// Open handles POST /api/payments.
func (h *PaymentHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req model.OpenPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	p, err := h.service.Open(r.Context(), req.Plan)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Get handles GET /api/payments/{id}.
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Get)
}

// SubmitDetails handles POST /api/payments/{id}/details.
func (h *PaymentHandler) SubmitDetails(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentDetailsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	h.respond(w, r, func(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
		return h.service.SubmitDetails(ctx, id, req)
	})
}

// ChooseMethod handles POST /api/payments/{id}/method.
func (h *PaymentHandler) ChooseMethod(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentMethodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	h.respond(w, r, func(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
		return h.service.ChooseMethod(ctx, id, req.Method)
	})
}

// SubmitCard handles POST /api/payments/{id}/card.
func (h *PaymentHandler) SubmitCard(w http.ResponseWriter, r *http.Request) {
	var req model.CardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	h.respond(w, r, func(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
		return h.service.SubmitCard(ctx, id, req)
	})
}

// SubmitOTP handles POST /api/payments/{id}/otp.
func (h *PaymentHandler) SubmitOTP(w http.ResponseWriter, r *http.Request) {
	var req model.OTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	h.respondAccepted(w, r, func(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
		return h.service.SubmitOTP(ctx, id, req.OTP)
	})
}

// ConfirmUPI handles POST /api/payments/{id}/upi/paid.
func (h *PaymentHandler) ConfirmUPI(w http.ResponseWriter, r *http.Request) {
	h.respondAccepted(w, r, h.service.ConfirmUPI)
}

// Back handles POST /api/payments/{id}/back.
func (h *PaymentHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Back)
}

// Close handles DELETE /api/payments/{id}.
func (h *PaymentHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Close)
}

// QR handles GET /api/payments/{id}/qr?size, returning a PNG.
func (h *PaymentHandler) QR(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	size := 0
	if s := r.URL.Query().Get("size"); s != "" {
		if size, err = strconv.Atoi(s); err != nil {
			writeError(w, r, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid size parameter"), h.logger)
			return
		}
	}

	png, err := h.service.QR(r.Context(), id, size)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *PaymentHandler) respond(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (*model.Payment, error)) {
	h.write(w, r, http.StatusOK, fn)
}

// respondAccepted answers 202 since processing continues after the response.
func (h *PaymentHandler) respondAccepted(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (*model.Payment, error)) {
	h.write(w, r, http.StatusAccepted, fn)
}

func (h *PaymentHandler) write(w http.ResponseWriter, r *http.Request, status int, fn func(context.Context, uuid.UUID) (*model.Payment, error)) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	p, err := fn(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, status, p)
}
