package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mediplus/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleSubmission() model.OrderSubmission {
	return model.OrderSubmission{
		Delivery: model.DeliveryInfo{FullName: "Asha Rao", Email: "asha@example.com"},
		Items: []model.CartItem{
			{ID: "med-1", Name: "Paracetamol 500mg", Price: 10, Quantity: 2},
			{ID: "med-2", Name: "Amoxicillin 250mg", Price: 25, Quantity: 1},
		},
		PaymentMethod: model.PaymentCOD,
		PaymentStatus: model.PaymentStatusPending,
		CouponCode:    "SAVE20",
		Summary: model.PriceSummary{
			Subtotal:       45,
			CouponDiscount: 20,
			DeliveryCharge: 4.99,
			Total:          29.99,
		},
	}
}

func TestReceiptService_Record(t *testing.T) {
	ctx := context.Background()
	checkoutID := uuid.New()

	mockRepo := new(MockReceiptRepository)
	mockTx := new(MockTx)
	svc := NewReceiptService(mockRepo, zerolog.Nop())

	mockRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockRepo.On("CreateReceipt", ctx, mockTx, mock.MatchedBy(func(r *model.OrderReceipt) bool {
		return r.OrderID == "ORD-7" &&
			r.CheckoutID == checkoutID &&
			r.CouponCode != nil && *r.CouponCode == "SAVE20" &&
			r.Total == 29.99
	})).Return(nil)
	mockRepo.On("CreateReceiptItems", ctx, mockTx, mock.MatchedBy(func(items []model.ReceiptItem) bool {
		return len(items) == 2 && items[0].MedicineID == "med-1" && items[1].Quantity == 1
	})).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	receipt, err := svc.Record(ctx, checkoutID, "ORD-7", sampleSubmission())

	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.NotEqual(t, uuid.Nil, receipt.ID)
	assert.Equal(t, model.PaymentStatusPending, receipt.PaymentStatus)

	mockRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
	mockTx.AssertNotCalled(t, "Rollback", mock.Anything)
}

func TestReceiptService_Record_NoCoupon(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockReceiptRepository)
	mockTx := new(MockTx)
	svc := NewReceiptService(mockRepo, zerolog.Nop())

	mockRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockRepo.On("CreateReceipt", ctx, mockTx, mock.MatchedBy(func(r *model.OrderReceipt) bool {
		return r.CouponCode == nil
	})).Return(nil)
	mockRepo.On("CreateReceiptItems", ctx, mockTx, mock.Anything).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	sub := sampleSubmission()
	sub.CouponCode = ""

	_, err := svc.Record(ctx, uuid.New(), "ORD-8", sub)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestReceiptService_Record_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		setup    func(repo *MockReceiptRepository, tx *MockTx)
		errMatch string
	}{
		{
			name: "Begin transaction fails",
			setup: func(repo *MockReceiptRepository, tx *MockTx) {
				repo.On("BeginTx", ctx).Return(nil, errors.New("pool closed"))
			},
			errMatch: "failed to record receipt",
		},
		{
			name: "Receipt insert fails",
			setup: func(repo *MockReceiptRepository, tx *MockTx) {
				repo.On("BeginTx", ctx).Return(tx, nil)
				repo.On("CreateReceipt", ctx, tx, mock.Anything).Return(errors.New("duplicate key"))
				tx.On("Rollback", ctx).Return(nil)
			},
			errMatch: "failed to record receipt",
		},
		{
			name: "Item insert fails",
			setup: func(repo *MockReceiptRepository, tx *MockTx) {
				repo.On("BeginTx", ctx).Return(tx, nil)
				repo.On("CreateReceipt", ctx, tx, mock.Anything).Return(nil)
				repo.On("CreateReceiptItems", ctx, tx, mock.Anything).Return(errors.New("check violation"))
				tx.On("Rollback", ctx).Return(nil)
			},
			errMatch: "failed to record receipt items",
		},
		{
			name: "Commit fails",
			setup: func(repo *MockReceiptRepository, tx *MockTx) {
				repo.On("BeginTx", ctx).Return(tx, nil)
				repo.On("CreateReceipt", ctx, tx, mock.Anything).Return(nil)
				repo.On("CreateReceiptItems", ctx, tx, mock.Anything).Return(nil)
				tx.On("Commit", ctx).Return(errors.New("connection reset"))
				tx.On("Rollback", ctx).Return(nil)
			},
			errMatch: "failed to record receipt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockReceiptRepository)
			mockTx := new(MockTx)
			tt.setup(mockRepo, mockTx)

			svc := NewReceiptService(mockRepo, zerolog.Nop())
			receipt, err := svc.Record(ctx, uuid.New(), "ORD-9", sampleSubmission())

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMatch)
			assert.Nil(t, receipt)

			mockRepo.AssertExpectations(t)
			mockTx.AssertExpectations(t)
		})
	}
}

func TestReceiptService_GetByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("Found", func(t *testing.T) {
		mockRepo := new(MockReceiptRepository)
		svc := NewReceiptService(mockRepo, zerolog.Nop())

		receipt := &model.OrderReceipt{ID: id, OrderID: "ORD-1", Total: 12.5, CreatedAt: time.Now()}
		items := []model.ReceiptItem{{ReceiptID: id, MedicineID: "med-1", Name: "Paracetamol 500mg", Price: 12.5, Quantity: 1}}
		mockRepo.On("GetByID", ctx, id).Return(receipt, items, nil)

		resp, err := svc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "ORD-1", resp.OrderID)
		assert.Len(t, resp.Items, 1)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo := new(MockReceiptRepository)
		svc := NewReceiptService(mockRepo, zerolog.Nop())
		mockRepo.On("GetByID", ctx, id).Return(nil, nil, nil)

		resp, err := svc.GetByID(ctx, id)
		assert.ErrorIs(t, err, model.ErrReceiptNotFound)
		assert.Nil(t, resp)
	})

	t.Run("Repository error", func(t *testing.T) {
		mockRepo := new(MockReceiptRepository)
		svc := NewReceiptService(mockRepo, zerolog.Nop())
		mockRepo.On("GetByID", ctx, id).Return(nil, nil, errors.New("database error"))

		resp, err := svc.GetByID(ctx, id)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get receipt")
		assert.Nil(t, resp)
	})
}
