package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mediplus/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var body model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedMsg    string
		redirect       string
	}{
		{
			name:           "not found",
			err:            model.ErrCartNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeCartNotFound,
			expectedMsg:    "Cart not found",
		},
		{
			name:           "wrapped domain error",
			err:            fmt.Errorf("context: %w", model.ErrInvalidCoupon),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidCoupon,
			expectedMsg:    "Invalid coupon code",
		},
		{
			name:           "auth required redirects to login",
			err:            model.ErrAuthRequired,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   model.ErrCodeUnauthorised,
			expectedMsg:    "Session expired. Please login again.",
			redirect:       "/login",
		},
		{
			name:           "booking not found",
			err:            model.ErrBookingNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeBookingNotFound,
			expectedMsg:    "Booking not found",
		},
		{
			name:           "booking already confirmed",
			err:            model.ErrBookingAlreadyDone,
			expectedStatus: http.StatusConflict,
			expectedCode:   model.ErrCodeBookingAlreadyDone,
			expectedMsg:    "Booking has already been confirmed",
		},
		{
			name:           "invalid booking slot",
			err:            model.ErrInvalidTimeSlot,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidBooking,
			expectedMsg:    "Please choose an available time slot",
		},
		{
			name:           "conflict",
			err:            model.ErrPaymentInProgress,
			expectedStatus: http.StatusConflict,
			expectedCode:   model.ErrCodePaymentInProgress,
			expectedMsg:    "Payment is already being processed",
		},
		{
			name:           "backend rejection keeps 4xx",
			err:            &model.BackendError{Status: http.StatusUnprocessableEntity, Message: "Email already registered"},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   model.ErrCodeBackendUnavailable,
			expectedMsg:    "Email already registered",
		},
		{
			name:           "backend failure becomes bad gateway",
			err:            &model.BackendError{Status: http.StatusInternalServerError, Message: "boom"},
			expectedStatus: http.StatusBadGateway,
			expectedCode:   model.ErrCodeBackendUnavailable,
			expectedMsg:    "boom",
		},
		{
			name:           "unreachable backend",
			err:            &model.BackendError{Message: "dial tcp: connection refused"},
			expectedStatus: http.StatusBadGateway,
			expectedCode:   model.ErrCodeBackendUnavailable,
			expectedMsg:    "Backend is unavailable. Please try again later.",
		},
		{
			name:           "unknown error",
			err:            errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodeInternalError,
			expectedMsg:    "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
			rec := httptest.NewRecorder()

			writeError(rec, req, tt.err, zerolog.Nop())

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			body := decodeError(t, rec)
			assert.Equal(t, tt.expectedCode, body.Error)
			assert.Equal(t, tt.expectedMsg, body.Message)
			assert.Equal(t, tt.redirect, body.Redirect)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst model.ApplyCouponRequest

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"SAVE20"}`))
	require.NoError(t, decodeJSON(req, &dst))
	assert.Equal(t, "SAVE20", dst.Code)

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	assert.NoError(t, decodeJSON(req, &dst))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":`))
	assert.ErrorIs(t, decodeJSON(req, &dst), errInvalidJSON)
}

func TestUUIDParam(t *testing.T) {
	req := withParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "not-a-uuid"})
	_, err := uuidParam(req, "id")
	assert.ErrorIs(t, err, errInvalidID)
}
