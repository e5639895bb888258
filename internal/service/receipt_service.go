package service

import (
	"context"
	"fmt"
	"time"

	"mediplus/internal/model"
	"mediplus/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// receiptService implements ReceiptService.
type receiptService struct {
	receiptRepo repository.ReceiptRepository
	now         func() time.Time
	logger      zerolog.Logger
}

// NewReceiptService creates a new receipt service.
func NewReceiptService(receiptRepo repository.ReceiptRepository, logger zerolog.Logger) ReceiptService {
	return &receiptService{
		receiptRepo: receiptRepo,
		now:         time.Now,
		logger:      logger.With().Str("service", "receipt").Logger(),
	}
}

// Record persists the receipt and its lines in one transaction.
func (s *receiptService) Record(ctx context.Context, checkoutID uuid.UUID, orderID string, sub model.OrderSubmission) (receipt *model.OrderReceipt, err error) {
	tx, err := s.receiptRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to record receipt: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	receipt = &model.OrderReceipt{
		ID:             uuid.New(),
		OrderID:        orderID,
		CheckoutID:     checkoutID,
		PaymentMethod:  sub.PaymentMethod,
		PaymentStatus:  sub.PaymentStatus,
		Subtotal:       sub.Summary.Subtotal,
		CouponDiscount: sub.Summary.CouponDiscount,
		DeliveryCharge: sub.Summary.DeliveryCharge,
		Total:          sub.Summary.Total,
		CreatedAt:      s.now().UTC(),
	}
	if sub.CouponCode != "" {
		code := sub.CouponCode
		receipt.CouponCode = &code
	}

	if err = s.receiptRepo.CreateReceipt(ctx, tx, receipt); err != nil {
		return nil, fmt.Errorf("failed to record receipt: %w", err)
	}

	items := make([]model.ReceiptItem, len(sub.Items))
	for i, item := range sub.Items {
		items[i] = model.ReceiptItem{
			ID:         uuid.New(),
			ReceiptID:  receipt.ID,
			MedicineID: item.ID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
		}
	}

	if err = s.receiptRepo.CreateReceiptItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("receipt_id", receipt.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create receipt items")
		return nil, fmt.Errorf("failed to record receipt items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("receipt_id", receipt.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to record receipt: %w", err)
	}

	s.logger.Info().
		Str("receipt_id", receipt.ID.String()).
		Str("order_id", orderID).
		Int("item_count", len(items)).
		Msg("receipt recorded")

	return receipt, nil
}

// GetByID retrieves a receipt with its lines.
func (s *receiptService) GetByID(ctx context.Context, id uuid.UUID) (*model.ReceiptResponse, error) {
	receipt, items, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("receipt_id", id.String()).Msg("failed to get receipt")
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	if receipt == nil {
		s.logger.Debug().Str("receipt_id", id.String()).Msg("receipt not found")
		return nil, model.ErrReceiptNotFound
	}

	return &model.ReceiptResponse{
		OrderReceipt: *receipt,
		Items:        items,
	}, nil
}
