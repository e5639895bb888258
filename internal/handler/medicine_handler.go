package handler

import (
	"net/http"
	"strconv"

	"mediplus/internal/model"
	"mediplus/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

var (
	errInvalidLimit  = model.NewDomainError(model.ErrCodeInvalidJSON, "invalid limit parameter")
	errInvalidOffset = model.NewDomainError(model.ErrCodeInvalidJSON, "invalid offset parameter")
)

// MedicineHandler handles medicine catalog requests.
type MedicineHandler struct {
	service service.MedicineService
	logger  zerolog.Logger
}

// NewMedicineHandler creates a new medicine handler.
func NewMedicineHandler(service service.MedicineService, logger zerolog.Logger) *MedicineHandler {
	return &MedicineHandler{
		service: service,
		logger:  logger.With().Str("handler", "medicine").Logger(),
	}
}

// GetAll handles GET /api/medicines?category&limit&offset.
func (h *MedicineHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 10 // default
	if s := query.Get("limit"); s != "" {
		var err error
		if limit, err = strconv.Atoi(s); err != nil {
			writeError(w, r, errInvalidLimit, h.logger)
			return
		}
	}

	offset := 0 // default
	if s := query.Get("offset"); s != "" {
		var err error
		if offset, err = strconv.Atoi(s); err != nil {
			writeError(w, r, errInvalidOffset, h.logger)
			return
		}
	}

	medicines, err := h.service.GetAll(r.Context(), query.Get("category"), limit, offset)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, medicines)
}

// GetByID handles GET /api/medicines/{id}.
func (h *MedicineHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	medicine, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, medicine)
}
