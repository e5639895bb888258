package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"mediplus/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// withParams attaches chi URL parameters to a request built outside a router.
func withParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type MockMedicineService struct {
	mock.Mock
}

func (m *MockMedicineService) GetAll(ctx context.Context, category string, limit, offset int) ([]model.Medicine, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Medicine), args.Error(1)
}

func (m *MockMedicineService) GetByID(ctx context.Context, id string) (*model.Medicine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Medicine), args.Error(1)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) cart(args mock.Arguments) (*model.CartResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartResponse), args.Error(1)
}

func (m *MockCartService) Create(ctx context.Context) (*model.CartResponse, error) {
	return m.cart(m.Called(ctx))
}

func (m *MockCartService) Get(ctx context.Context, id uuid.UUID) (*model.CartResponse, error) {
	return m.cart(m.Called(ctx, id))
}

func (m *MockCartService) AddItem(ctx context.Context, id uuid.UUID, req model.AddItemRequest) (*model.CartResponse, error) {
	return m.cart(m.Called(ctx, id, req))
}

func (m *MockCartService) Increase(ctx context.Context, id uuid.UUID, itemID string) (*model.CartResponse, error) {
	return m.cart(m.Called(ctx, id, itemID))
}

func (m *MockCartService) Decrease(ctx context.Context, id uuid.UUID, itemID string) (*model.CartResponse, error) {
	return m.cart(m.Called(ctx, id, itemID))
}

func (m *MockCartService) Remove(ctx context.Context, id uuid.UUID, itemID string) (*model.CartResponse, error) {
	return m.cart(m.Called(ctx, id, itemID))
}

func (m *MockCartService) Clear(ctx context.Context, id uuid.UUID) (*model.CartResponse, error) {
	return m.cart(m.Called(ctx, id))
}

func (m *MockCartService) ApplyCoupon(ctx context.Context, id uuid.UUID, code string) (*model.CartResponse, error) {
	return m.cart(m.Called(ctx, id, code))
}

func (m *MockCartService) RemoveCoupon(ctx context.Context, id uuid.UUID) (*model.CartResponse, error) {
	return m.cart(m.Called(ctx, id))
}

func (m *MockCartService) Coupons() []model.Coupon {
	return m.Called().Get(0).([]model.Coupon)
}

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) checkout(args mock.Arguments) (*model.Checkout, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Checkout), args.Error(1)
}

func (m *MockCheckoutService) Start(ctx context.Context, cartID uuid.UUID) (*model.Checkout, error) {
	return m.checkout(m.Called(ctx, cartID))
}

func (m *MockCheckoutService) Get(ctx context.Context, id uuid.UUID) (*model.Checkout, error) {
	return m.checkout(m.Called(ctx, id))
}

func (m *MockCheckoutService) SubmitDelivery(ctx context.Context, id uuid.UUID, info model.DeliveryInfo) (*model.Checkout, error) {
	return m.checkout(m.Called(ctx, id, info))
}

func (m *MockCheckoutService) SelectMethod(ctx context.Context, id uuid.UUID, method model.PaymentMethod) (*model.Checkout, error) {
	return m.checkout(m.Called(ctx, id, method))
}

func (m *MockCheckoutService) Next(ctx context.Context, id uuid.UUID) (*model.Checkout, error) {
	return m.checkout(m.Called(ctx, id))
}

func (m *MockCheckoutService) Back(ctx context.Context, id uuid.UUID) (*model.Checkout, error) {
	return m.checkout(m.Called(ctx, id))
}

func (m *MockCheckoutService) Place(ctx context.Context, id uuid.UUID, token string, prescription *model.Upload) (*model.Checkout, error) {
	return m.checkout(m.Called(ctx, id, token, prescription))
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) payment(args mock.Arguments) (*model.Payment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentService) Open(ctx context.Context, plan model.PaymentPlan) (*model.Payment, error) {
	return m.payment(m.Called(ctx, plan))
}

func (m *MockPaymentService) Get(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return m.payment(m.Called(ctx, id))
}

func (m *MockPaymentService) SubmitDetails(ctx context.Context, id uuid.UUID, req model.PaymentDetailsRequest) (*model.Payment, error) {
	return m.payment(m.Called(ctx, id, req))
}

func (m *MockPaymentService) ChooseMethod(ctx context.Context, id uuid.UUID, method model.PaymentMethod) (*model.Payment, error) {
	return m.payment(m.Called(ctx, id, method))
}

func (m *MockPaymentService) SubmitCard(ctx context.Context, id uuid.UUID, req model.CardRequest) (*model.Payment, error) {
	return m.payment(m.Called(ctx, id, req))
}

func (m *MockPaymentService) SubmitOTP(ctx context.Context, id uuid.UUID, otp string) (*model.Payment, error) {
	return m.payment(m.Called(ctx, id, otp))
}

func (m *MockPaymentService) ConfirmUPI(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return m.payment(m.Called(ctx, id))
}

func (m *MockPaymentService) Back(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return m.payment(m.Called(ctx, id))
}

func (m *MockPaymentService) Close(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return m.payment(m.Called(ctx, id))
}

func (m *MockPaymentService) QR(ctx context.Context, id uuid.UUID, size int) ([]byte, error) {
	args := m.Called(ctx, id, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

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

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, creds model.Credentials) (model.AuthResponse, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(model.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Signup(ctx context.Context, creds model.Credentials) (model.AuthResponse, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(model.AuthResponse), args.Error(1)
}

func (m *MockAuthService) MyOrders(ctx context.Context, token string) (json.RawMessage, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) labBooking(args mock.Arguments) (*model.LabBooking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LabBooking), args.Error(1)
}

func (m *MockBookingService) StartLabBooking(ctx context.Context, test model.LabTest) (*model.LabBooking, error) {
	return m.labBooking(m.Called(ctx, test))
}

func (m *MockBookingService) GetLabBooking(ctx context.Context, id uuid.UUID) (*model.LabBooking, error) {
	return m.labBooking(m.Called(ctx, id))
}

func (m *MockBookingService) Continue(ctx context.Context, id uuid.UUID) (*model.LabBooking, error) {
	return m.labBooking(m.Called(ctx, id))
}

func (m *MockBookingService) Back(ctx context.Context, id uuid.UUID) (*model.LabBooking, error) {
	return m.labBooking(m.Called(ctx, id))
}

func (m *MockBookingService) SubmitContact(ctx context.Context, id uuid.UUID, contact model.LabContact) (*model.LabBooking, error) {
	return m.labBooking(m.Called(ctx, id, contact))
}

func (m *MockBookingService) Confirm(ctx context.Context, id uuid.UUID, schedule model.LabSchedule) (*model.LabBooking, error) {
	return m.labBooking(m.Called(ctx, id, schedule))
}

func (m *MockBookingService) BookConsultation(ctx context.Context, req model.ConsultationRequest) (*model.Consultation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Consultation), args.Error(1)
}
