package repository

import (
	"context"
	"testing"
	"time"

	"mediplus/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReceipt(coupon *string) *model.OrderReceipt {
	return &model.OrderReceipt{
		ID:             uuid.New(),
		OrderID:        "ORD-1001",
		CheckoutID:     uuid.New(),
		PaymentMethod:  model.PaymentUPI,
		PaymentStatus:  model.PaymentStatusPaid,
		CouponCode:     coupon,
		Subtotal:       40,
		CouponDiscount: 20,
		DeliveryCharge: 4.99,
		Total:          24.99,
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}
}

func receiptLines(receiptID uuid.UUID) []model.ReceiptItem {
	return []model.ReceiptItem{
		{ID: uuid.New(), ReceiptID: receiptID, MedicineID: "med-1", Name: "Paracetamol 500mg", Price: 3.49, Quantity: 2},
		{ID: uuid.New(), ReceiptID: receiptID, MedicineID: "med-2", Name: "Amoxicillin 250mg", Price: 12.5, Quantity: 1},
	}
}

func TestReceiptRepository_CreateAndGet(t *testing.T) {
	pool := setupTestDB(t)

	repo := NewReceiptRepository(pool, zerolog.Nop())
	ctx := context.Background()

	code := "SAVE20"
	receipt := newReceipt(&code)

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateReceipt(ctx, tx, receipt))
	require.NoError(t, repo.CreateReceiptItems(ctx, tx, receiptLines(receipt.ID)))
	require.NoError(t, tx.Commit(ctx))

	got, items, err := repo.GetByID(ctx, receipt.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, receipt.OrderID, got.OrderID)
	assert.Equal(t, receipt.CheckoutID, got.CheckoutID)
	assert.Equal(t, model.PaymentUPI, got.PaymentMethod)
	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)
	require.NotNil(t, got.CouponCode)
	assert.Equal(t, "SAVE20", *got.CouponCode)
	assert.Equal(t, 24.99, got.Total)
	assert.True(t, receipt.CreatedAt.Equal(got.CreatedAt))

	require.Len(t, items, 2)
	assert.Equal(t, "Amoxicillin 250mg", items[0].Name)
	assert.Equal(t, 2, items[1].Quantity)
}

func TestReceiptRepository_NegativeTotal(t *testing.T) {
	pool := setupTestDB(t)

	repo := NewReceiptRepository(pool, zerolog.Nop())
	ctx := context.Background()

	receipt := newReceipt(nil)
	receipt.PaymentMethod = model.PaymentCOD
	receipt.PaymentStatus = model.PaymentStatusPending
	receipt.Subtotal = 10
	receipt.CouponDiscount = 20
	receipt.Total = -5.01

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateReceipt(ctx, tx, receipt))
	require.NoError(t, tx.Commit(ctx))

	got, items, err := repo.GetByID(ctx, receipt.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, -5.01, got.Total)
	assert.Nil(t, got.CouponCode)
	assert.Empty(t, items)
}

func TestReceiptRepository_DuplicateCheckout(t *testing.T) {
	pool := setupTestDB(t)

	repo := NewReceiptRepository(pool, zerolog.Nop())
	ctx := context.Background()

	first := newReceipt(nil)
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateReceipt(ctx, tx, first))
	require.NoError(t, tx.Commit(ctx))

	second := newReceipt(nil)
	second.CheckoutID = first.CheckoutID

	tx, err = repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	err = repo.CreateReceipt(ctx, tx, second)
	assert.ErrorContains(t, err, "failed to create receipt")
}

func TestReceiptRepository_RollbackDiscardsItems(t *testing.T) {
	pool := setupTestDB(t)

	repo := NewReceiptRepository(pool, zerolog.Nop())
	ctx := context.Background()

	receipt := newReceipt(nil)
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateReceipt(ctx, tx, receipt))

	bad := receiptLines(receipt.ID)
	bad[1].Quantity = 0
	err = repo.CreateReceiptItems(ctx, tx, bad)
	require.ErrorContains(t, err, "failed to create receipt item")
	require.NoError(t, tx.Rollback(ctx))

	got, _, err := repo.GetByID(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReceiptRepository_GetUnknown(t *testing.T) {
	pool := setupTestDB(t)

	repo := NewReceiptRepository(pool, zerolog.Nop())

	got, items, err := repo.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Nil(t, items)
}

func TestReceiptRepository_EmptyItems(t *testing.T) {
	repo := NewReceiptRepository(nil, zerolog.Nop())

	// no batch is sent for an empty slice, so no transaction is needed
	assert.NoError(t, repo.CreateReceiptItems(context.Background(), nil, nil))
}
