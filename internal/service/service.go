package service

import (
	"context"
	"encoding/json"

	"mediplus/internal/model"

	"github.com/google/uuid"
)

// MedicineService defines read access to the medicine catalog.
type MedicineService interface {
	// GetAll retrieves medicines with pagination. An empty category matches all.
	GetAll(ctx context.Context, category string, limit, offset int) ([]model.Medicine, error)

	// GetByID retrieves a single medicine by ID.
	GetByID(ctx context.Context, id string) (*model.Medicine, error)
}

// CartService defines cart operations. Every call returns the cart with its price summary.
type CartService interface {
	Create(ctx context.Context) (*model.CartResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*model.CartResponse, error)

	// AddItem adds a catalog medicine; name and prices come from the catalog.
	AddItem(ctx context.Context, id uuid.UUID, req model.AddItemRequest) (*model.CartResponse, error)

	Increase(ctx context.Context, id uuid.UUID, itemID string) (*model.CartResponse, error)
	Decrease(ctx context.Context, id uuid.UUID, itemID string) (*model.CartResponse, error)
	Remove(ctx context.Context, id uuid.UUID, itemID string) (*model.CartResponse, error)
	Clear(ctx context.Context, id uuid.UUID) (*model.CartResponse, error)

	// ApplyCoupon validates a code against the current subtotal and replaces any applied coupon.
	// On rejection the applied coupon is unchanged.
	ApplyCoupon(ctx context.Context, id uuid.UUID, code string) (*model.CartResponse, error)

	RemoveCoupon(ctx context.Context, id uuid.UUID) (*model.CartResponse, error)

	// Coupons lists the coupon catalog.
	Coupons() []model.Coupon
}

// CheckoutService drives the checkout wizard and order placement.
type CheckoutService interface {
	Start(ctx context.Context, cartID uuid.UUID) (*model.Checkout, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Checkout, error)
	SubmitDelivery(ctx context.Context, id uuid.UUID, info model.DeliveryInfo) (*model.Checkout, error)
	SelectMethod(ctx context.Context, id uuid.UUID, method model.PaymentMethod) (*model.Checkout, error)
	Next(ctx context.Context, id uuid.UUID) (*model.Checkout, error)
	Back(ctx context.Context, id uuid.UUID) (*model.Checkout, error)

	// Place submits a cash-on-delivery order straight away. For UPI and card
	// it opens a payment session and the order is submitted once payment succeeds.
	Place(ctx context.Context, id uuid.UUID, token string, prescription *model.Upload) (*model.Checkout, error)
}

// BookingService books lab tests through a wizard and doctor consultations in one request.
type BookingService interface {
	StartLabBooking(ctx context.Context, test model.LabTest) (*model.LabBooking, error)
	GetLabBooking(ctx context.Context, id uuid.UUID) (*model.LabBooking, error)
	Continue(ctx context.Context, id uuid.UUID) (*model.LabBooking, error)
	Back(ctx context.Context, id uuid.UUID) (*model.LabBooking, error)
	SubmitContact(ctx context.Context, id uuid.UUID, contact model.LabContact) (*model.LabBooking, error)

	// Confirm saves the schedule and sends the booking. On failure the booking
	// stays on the schedule step with LastError set.
	Confirm(ctx context.Context, id uuid.UUID, schedule model.LabSchedule) (*model.LabBooking, error)

	BookConsultation(ctx context.Context, req model.ConsultationRequest) (*model.Consultation, error)
}

// PaymentService exposes the simulated payment flow.
type PaymentService interface {
	// Open starts a standalone payment for a plan.
	Open(ctx context.Context, plan model.PaymentPlan) (*model.Payment, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	SubmitDetails(ctx context.Context, id uuid.UUID, req model.PaymentDetailsRequest) (*model.Payment, error)
	ChooseMethod(ctx context.Context, id uuid.UUID, method model.PaymentMethod) (*model.Payment, error)
	SubmitCard(ctx context.Context, id uuid.UUID, req model.CardRequest) (*model.Payment, error)
	SubmitOTP(ctx context.Context, id uuid.UUID, otp string) (*model.Payment, error)
	ConfirmUPI(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	Back(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	Close(ctx context.Context, id uuid.UUID) (*model.Payment, error)

	// QR renders the session's UPI link as a PNG.
	QR(ctx context.Context, id uuid.UUID, size int) ([]byte, error)
}

// ReceiptService keeps local records of placed orders.
type ReceiptService interface {
	// Record persists a receipt for an order the backend accepted.
	Record(ctx context.Context, checkoutID uuid.UUID, orderID string, sub model.OrderSubmission) (*model.OrderReceipt, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.ReceiptResponse, error)
}

// AuthService proxies authentication to the backend.
type AuthService interface {
	Login(ctx context.Context, creds model.Credentials) (model.AuthResponse, error)
	Signup(ctx context.Context, creds model.Credentials) (model.AuthResponse, error)

	// MyOrders lists the caller's orders as held by the backend.
	MyOrders(ctx context.Context, token string) (json.RawMessage, error)
}

// OrderBackend creates orders on the external backend.
type OrderBackend interface {
	CreateOrder(ctx context.Context, token string, sub model.OrderSubmission) (string, error)
}

// AuthBackend authenticates against the external backend.
type AuthBackend interface {
	Login(ctx context.Context, creds model.Credentials) (model.AuthResponse, error)
	Signup(ctx context.Context, creds model.Credentials) (model.AuthResponse, error)
	MyOrders(ctx context.Context, token string) (json.RawMessage, error)
}

// BookingBackend sends bookings to the external backend.
type BookingBackend interface {
	BookLabTest(ctx context.Context, req model.LabBookingRequest) (string, error)
	BookConsultation(ctx context.Context, req model.ConsultationRequest) (string, error)
}
