package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentUPI  PaymentMethod = "upi"
	PaymentCard PaymentMethod = "card"
	PaymentCOD  PaymentMethod = "cod"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentUPI, PaymentCard, PaymentCOD:
		return true
	}
	return false
}

// Immediate reports whether the method must be paid before the order is submitted.
func (m PaymentMethod) Immediate() bool {
	return m == PaymentUPI || m == PaymentCard
}

// DeliveryInfo is the address and contact record collected at checkout.
type DeliveryInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Landmark string `json:"landmark,omitempty"`
}

// Checkout is the externally visible state of a checkout wizard.
type Checkout struct {
	ID               uuid.UUID     `json:"id"`
	CartID           uuid.UUID     `json:"cartId"`
	Step             string        `json:"step"`
	StepNumber       int           `json:"stepNumber"`
	Delivery         DeliveryInfo  `json:"deliveryInfo"`
	PaymentMethod    PaymentMethod `json:"paymentMethod,omitempty"`
	AwaitingPayment  bool          `json:"awaitingPayment"`
	Submitting       bool          `json:"submitting,omitempty"`
	PaymentSessionID *uuid.UUID    `json:"paymentSessionId,omitempty"`
	OrderID          string        `json:"orderId,omitempty"`
	ReceiptID        *uuid.UUID    `json:"receiptId,omitempty"`
	LastError        string        `json:"lastError,omitempty"`
	Summary          *PriceSummary `json:"summary,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// StartCheckoutRequest represents the request payload for starting a checkout.
type StartCheckoutRequest struct {
	CartID uuid.UUID `json:"cartId"`
}

// SelectPaymentMethodRequest represents the request payload for choosing a payment method.
type SelectPaymentMethodRequest struct {
	Method PaymentMethod `json:"method"`
}
