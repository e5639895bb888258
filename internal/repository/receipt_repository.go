package repository

import (
	"context"
	"errors"
	"fmt"

	"mediplus/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// receiptRepository implements ReceiptRepository using PostgreSQL.
type receiptRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReceiptRepository creates a new PostgreSQL-backed receipt repository.
func NewReceiptRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReceiptRepository {
	return &receiptRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "receipt").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *receiptRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateReceipt inserts a receipt within the provided transaction.
func (r *receiptRepository) CreateReceipt(ctx context.Context, tx pgx.Tx, receipt *model.OrderReceipt) error {
	query := `
		INSERT INTO receipts (
			id, order_id, checkout_id, payment_method, payment_status, coupon_code,
			subtotal, coupon_discount, delivery_charge, total, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := tx.Exec(ctx, query,
		receipt.ID,
		receipt.OrderID,
		receipt.CheckoutID,
		receipt.PaymentMethod,
		receipt.PaymentStatus,
		receipt.CouponCode,
		receipt.Subtotal,
		receipt.CouponDiscount,
		receipt.DeliveryCharge,
		receipt.Total,
		receipt.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("receipt_id", receipt.ID.String()).
			Str("order_id", receipt.OrderID).
			Msg("failed to create receipt")
		return fmt.Errorf("failed to create receipt: %w", err)
	}

	r.logger.Debug().
		Str("receipt_id", receipt.ID.String()).
		Str("order_id", receipt.OrderID).
		Msg("receipt created successfully")

	return nil
}

// CreateReceiptItems inserts receipt lines in one batch within the provided transaction.
func (r *receiptRepository) CreateReceiptItems(ctx context.Context, tx pgx.Tx, items []model.ReceiptItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO receipt_items (id, receipt_id, medicine_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.ReceiptID, item.MedicineID, item.Name, item.Price, item.Quantity)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range items {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("receipt_id", items[i].ReceiptID.String()).
				Str("medicine_id", items[i].MedicineID).
				Msg("failed to create receipt item")
			return fmt.Errorf("failed to create receipt item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("receipt items created successfully")

	return nil
}

// GetByID retrieves a receipt by its ID along with its lines.
func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderReceipt, []model.ReceiptItem, error) {
	receiptQuery := `
		SELECT id, order_id, checkout_id, payment_method, payment_status, coupon_code,
			subtotal, coupon_discount, delivery_charge, total, created_at
		FROM receipts
		WHERE id = $1
	`

	var receipt model.OrderReceipt
	err := r.pool.QueryRow(ctx, receiptQuery, id).Scan(
		&receipt.ID,
		&receipt.OrderID,
		&receipt.CheckoutID,
		&receipt.PaymentMethod,
		&receipt.PaymentStatus,
		&receipt.CouponCode,
		&receipt.Subtotal,
		&receipt.CouponDiscount,
		&receipt.DeliveryCharge,
		&receipt.Total,
		&receipt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("receipt_id", id.String()).Msg("receipt not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("receipt_id", id.String()).Msg("failed to query receipt")
		return nil, nil, fmt.Errorf("failed to query receipt: %w", err)
	}

	itemsQuery := `
		SELECT id, receipt_id, medicine_id, name, price, quantity
		FROM receipt_items
		WHERE receipt_id = $1
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("receipt_id", id.String()).
			Msg("failed to query receipt items")
		return nil, nil, fmt.Errorf("failed to query receipt items: %w", err)
	}
	defer rows.Close()

	items := []model.ReceiptItem{}
	for rows.Next() {
		var item model.ReceiptItem
		if err := rows.Scan(&item.ID, &item.ReceiptID, &item.MedicineID, &item.Name, &item.Price, &item.Quantity); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan receipt item row")
			return nil, nil, fmt.Errorf("failed to scan receipt item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating receipt item rows")
		return nil, nil, fmt.Errorf("error iterating receipt items: %w", err)
	}

	return &receipt, items, nil
}
