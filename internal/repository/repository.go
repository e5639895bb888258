package repository

import (
	"context"

	"mediplus/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MedicineRepository defines the interface for medicine catalog access.
type MedicineRepository interface {
	// GetAll retrieves medicines ordered by name with pagination support.
	// An empty category matches every medicine.
	GetAll(ctx context.Context, category string, limit, offset int) ([]model.Medicine, error)

	// GetByID retrieves a single medicine. It returns nil, nil when the id is unknown.
	GetByID(ctx context.Context, id string) (*model.Medicine, error)

	// GetByIDs retrieves multiple medicines by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Medicine, error)

	// Upsert inserts medicines, replacing rows that share an id.
	Upsert(ctx context.Context, medicines []model.Medicine) error
}

// ReceiptRepository defines the interface for local order receipts.
type ReceiptRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateReceipt inserts a receipt within the provided transaction.
	CreateReceipt(ctx context.Context, tx pgx.Tx, receipt *model.OrderReceipt) error

	// CreateReceiptItems inserts the receipt's lines within the provided transaction.
	CreateReceiptItems(ctx context.Context, tx pgx.Tx, items []model.ReceiptItem) error

	// GetByID retrieves a receipt with its lines. It returns nil, nil, nil when the id is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderReceipt, []model.ReceiptItem, error)
}
