package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"mediplus/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

var (
	errInvalidJSON = model.NewDomainError(model.ErrCodeInvalidJSON, "Invalid request body")
	errInvalidID   = model.NewDomainError(model.ErrCodeInvalidJSON, "Invalid ID format")
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// statusFor maps a domain error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case model.ErrCodeCartNotFound,
		model.ErrCodeItemNotFound,
		model.ErrCodeMedicineNotFound,
		model.ErrCodeCheckoutNotFound,
		model.ErrCodePaymentNotFound,
		model.ErrCodeReceiptNotFound,
		model.ErrCodeBookingNotFound:
		return http.StatusNotFound
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeInvalidTransition,
		model.ErrCodePaymentInProgress,
		model.ErrCodeCheckoutAlreadyDone,
		model.ErrCodeBookingAlreadyDone:
		return http.StatusConflict
	case model.ErrCodeInternalError:
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// writeError renders err as an ErrorResponse. Domain errors keep their message;
// backend rejections keep their 4xx status; anything else is a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var (
		status int
		body   model.ErrorResponse
		be     *model.BackendError
	)

	if de, ok := model.AsDomainError(err); ok {
		status = statusFor(de.Code)
		body = model.ErrorResponse{Error: de.Code, Message: de.Message}
		if de.Code == model.ErrCodeUnauthorised {
			body.Redirect = "/login"
		}
	} else if errors.As(err, &be) {
		status = http.StatusBadGateway
		if be.Status >= 400 && be.Status < 500 {
			status = be.Status
		}
		body = model.ErrorResponse{Error: model.ErrCodeBackendUnavailable, Message: be.Message}
		if be.Status == 0 {
			body.Message = "Backend is unavailable. Please try again later."
		}
	} else {
		status = http.StatusInternalServerError
		body = model.ErrorResponse{Error: model.ErrCodeInternalError, Message: "Internal server error"}
	}

	event := logger.Warn()
	if status >= 500 {
		event = logger.Error()
	}
	event.Err(err).
		Int("status", status).
		Str("path", r.URL.Path).
		Str("request_id", middleware.GetReqID(r.Context())).
		Msg("handler error")

	writeJSON(w, status, body)
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst unchanged.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return errInvalidJSON
}

// uuidParam parses a UUID path parameter.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, errInvalidID
	}
	return id, nil
}
