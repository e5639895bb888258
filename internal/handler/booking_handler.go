package handler

import (
	"context"
	"net/http"

	"mediplus/internal/model"
	"mediplus/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookingHandler handles lab test and consultation bookings.
type BookingHandler struct {
	service service.BookingService
	logger  zerolog.Logger
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(service service.BookingService, logger zerolog.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		logger:  logger.With().Str("handler", "booking").Logger(),
	}
}

// StartLab handles POST /api/lab-bookings.
func (h *BookingHandler) StartLab(w http.ResponseWriter, r *http.Request) {
	var req model.StartLabBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	b, err := h.service.StartLabBooking(r.Context(), req.Test)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// GetLab handles GET /api/lab-bookings/{id}.
func (h *BookingHandler) GetLab(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.GetLabBooking)
}

// Continue handles POST /api/lab-bookings/{id}/next.
func (h *BookingHandler) Continue(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Continue)
}

// Back handles POST /api/lab-bookings/{id}/back.
func (h *BookingHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Back)
}

// SubmitContact handles PUT /api/lab-bookings/{id}/contact.
func (h *BookingHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var contact model.LabContact
	if err := decodeJSON(r, &contact); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	h.respond(w, r, func(ctx context.Context, id uuid.UUID) (*model.LabBooking, error) {
		return h.service.SubmitContact(ctx, id, contact)
	})
}

// Confirm handles POST /api/lab-bookings/{id}/confirm. The body carries the schedule.
func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var schedule model.LabSchedule
	if err := decodeJSON(r, &schedule); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	h.respond(w, r, func(ctx context.Context, id uuid.UUID) (*model.LabBooking, error) {
		return h.service.Confirm(ctx, id, schedule)
	})
}

// BookConsultation handles POST /api/consultations.
func (h *BookingHandler) BookConsultation(w http.ResponseWriter, r *http.Request) {
	var req model.ConsultationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	c, err := h.service.BookConsultation(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *BookingHandler) respond(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (*model.LabBooking, error)) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	b, err := fn(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
