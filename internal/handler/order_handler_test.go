package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mediplus/internal/middleware"
	"mediplus/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderHandler_GetByID(t *testing.T) {
	receiptID := uuid.New()
	receipt := &model.ReceiptResponse{
		OrderReceipt: model.OrderReceipt{ID: receiptID, OrderID: "ORD-1", Total: 49.99},
		Items:        []model.ReceiptItem{{MedicineID: "med-1", Name: "Paracetamol", Price: 10, Quantity: 2}},
	}

	tests := []struct {
		name           string
		id             string
		mockReturn     *model.ReceiptResponse
		mockError      error
		expectService  bool
		expectedStatus int
	}{
		{name: "Success", id: receiptID.String(), mockReturn: receipt, expectService: true, expectedStatus: http.StatusOK},
		{name: "Not found", id: receiptID.String(), mockError: model.ErrReceiptNotFound, expectService: true, expectedStatus: http.StatusNotFound},
		{name: "Service error", id: receiptID.String(), mockError: errors.New("database error"), expectService: true, expectedStatus: http.StatusInternalServerError},
		{name: "Invalid ID", id: "invalid-uuid", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			receipts := new(MockReceiptService)
			handler := NewOrderHandler(receipts, new(MockAuthService), zerolog.Nop())

			if tt.expectService {
				receipts.On("GetByID", mock.Anything, receiptID).Return(tt.mockReturn, tt.mockError)
			}

			req := withParams(httptest.NewRequest(http.MethodGet, "/api/orders/"+tt.id, nil), map[string]string{"id": tt.id})
			rec := httptest.NewRecorder()

			handler.GetByID(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.mockReturn != nil {
				var got model.ReceiptResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, "ORD-1", got.OrderID)
				assert.Len(t, got.Items, 1)
			}
			receipts.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_MyOrders(t *testing.T) {
	t.Run("lists orders", func(t *testing.T) {
		auth := new(MockAuthService)
		handler := NewOrderHandler(new(MockReceiptService), auth, zerolog.Nop())

		auth.On("MyOrders", mock.Anything, "tok-1").Return(json.RawMessage(`[{"orderId":"ORD-1"}]`), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req = req.WithContext(middleware.WithToken(req.Context(), "tok-1"))
		rec := httptest.NewRecorder()

		handler.MyOrders(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[{"orderId":"ORD-1"}]`, rec.Body.String())
		auth.AssertExpectations(t)
	})

	t.Run("requires login", func(t *testing.T) {
		auth := new(MockAuthService)
		handler := NewOrderHandler(new(MockReceiptService), auth, zerolog.Nop())

		auth.On("MyOrders", mock.Anything, "").Return(nil, model.ErrAuthRequired)

		rec := httptest.NewRecorder()
		handler.MyOrders(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "/login", decodeError(t, rec).Redirect)
	})
}
