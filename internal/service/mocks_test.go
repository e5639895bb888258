package service

import (
	"context"
	"encoding/json"
	"io"

	"mediplus/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockMedicineRepository is a mock implementation of MedicineRepository.
type MockMedicineRepository struct {
	mock.Mock
}

func (m *MockMedicineRepository) GetAll(ctx context.Context, category string, limit, offset int) ([]model.Medicine, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Medicine), args.Error(1)
}

func (m *MockMedicineRepository) GetByID(ctx context.Context, id string) (*model.Medicine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Medicine), args.Error(1)
}

func (m *MockMedicineRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Medicine, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Medicine), args.Error(1)
}

func (m *MockMedicineRepository) Upsert(ctx context.Context, medicines []model.Medicine) error {
	args := m.Called(ctx, medicines)
	return args.Error(0)
}

// MockReceiptRepository is a mock implementation of ReceiptRepository.
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReceiptRepository) CreateReceipt(ctx context.Context, tx pgx.Tx, receipt *model.OrderReceipt) error {
	args := m.Called(ctx, tx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) CreateReceiptItems(ctx context.Context, tx pgx.Tx, items []model.ReceiptItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockReceiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderReceipt, []model.ReceiptItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.OrderReceipt), args.Get(1).([]model.ReceiptItem), args.Error(2)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

// MockOrderBackend is a mock implementation of OrderBackend.
// It records the prescription bytes since the reader is single use.
type MockOrderBackend struct {
	mock.Mock
	prescriptions [][]byte
}

func (m *MockOrderBackend) CreateOrder(ctx context.Context, token string, sub model.OrderSubmission) (string, error) {
	if sub.Prescription != nil {
		data, _ := io.ReadAll(sub.Prescription.Content)
		m.prescriptions = append(m.prescriptions, data)
	}
	args := m.Called(ctx, token, sub)
	return args.String(0), args.Error(1)
}

// MockReceiptService is a mock implementation of ReceiptService.
type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) Record(ctx context.Context, checkoutID uuid.UUID, orderID string, sub model.OrderSubmission) (*model.OrderReceipt, error) {
	args := m.Called(ctx, checkoutID, orderID, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderReceipt), args.Error(1)
}

func (m *MockReceiptService) GetByID(ctx context.Context, id uuid.UUID) (*model.ReceiptResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReceiptResponse), args.Error(1)
}

// MockAuthBackend is a mock implementation of AuthBackend.
type MockAuthBackend struct {
	mock.Mock
}

func (m *MockAuthBackend) Login(ctx context.Context, creds model.Credentials) (model.AuthResponse, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(model.AuthResponse), args.Error(1)
}

func (m *MockAuthBackend) Signup(ctx context.Context, creds model.Credentials) (model.AuthResponse, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(model.AuthResponse), args.Error(1)
}

func (m *MockAuthBackend) MyOrders(ctx context.Context, token string) (json.RawMessage, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// MockBookingBackend is a mock implementation of BookingBackend.
type MockBookingBackend struct {
	mock.Mock
}

func (m *MockBookingBackend) BookLabTest(ctx context.Context, req model.LabBookingRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockBookingBackend) BookConsultation(ctx context.Context, req model.ConsultationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
