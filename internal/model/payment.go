package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentPlan describes what a payment session charges for.
type PaymentPlan struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Duration string  `json:"duration"`
	Price    float64 `json:"price"`
}

// Payment is the externally visible state of a payment session.
type Payment struct {
	ID            uuid.UUID     `json:"id"`
	BookingID     string        `json:"bookingId"`
	Plan          PaymentPlan   `json:"plan"`
	State         string        `json:"state"`
	StepNumber    int           `json:"stepNumber"`
	Email         string        `json:"email,omitempty"`
	Name          string        `json:"name,omitempty"`
	Method        PaymentMethod `json:"method,omitempty"`
	CardLast4     string        `json:"cardLast4,omitempty"`
	Verifying     bool          `json:"verifying,omitempty"`
	UPIURI        string        `json:"upiUri,omitempty"`
	TransactionID string        `json:"transactionId,omitempty"`
	FinalizeError string        `json:"finalizeError,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// Confirmation is the booking summary posted to the send-confirmation endpoint.
type Confirmation struct {
	PlanName      string        `json:"planName"`
	Duration      string        `json:"duration"`
	Amount        float64       `json:"amount"`
	AmountDisplay string        `json:"amountDisplay,omitempty"`
	BookingID     string        `json:"bookingId"`
	Email         string        `json:"email"`
	Name          string        `json:"name,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	TxnID         string        `json:"txnId,omitempty"`
}

// OpenPaymentRequest represents the request payload for opening a standalone payment.
type OpenPaymentRequest struct {
	Plan PaymentPlan `json:"plan"`
}

// PaymentDetailsRequest represents the details step payload.
type PaymentDetailsRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// PaymentMethodRequest represents the method selection payload.
type PaymentMethodRequest struct {
	Method PaymentMethod `json:"method"`
}

// CardRequest represents the card form payload.
type CardRequest struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// OTPRequest represents the OTP verification payload.
type OTPRequest struct {
	OTP string `json:"otp"`
}
