package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeInvalidCoupon       = "INVALID_COUPON"
	ErrCodeCouponMinOrder      = "COUPON_MIN_ORDER"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeCartNotFound        = "CART_NOT_FOUND"
	ErrCodeItemNotFound        = "ITEM_NOT_FOUND"
	ErrCodeCartEmpty           = "CART_EMPTY"
	ErrCodeMedicineNotFound    = "MEDICINE_NOT_FOUND"
	ErrCodeCheckoutNotFound    = "CHECKOUT_NOT_FOUND"
	ErrCodeInvalidTransition   = "INVALID_TRANSITION"
	ErrCodePaymentMethod       = "INVALID_PAYMENT_METHOD"
	ErrCodePaymentNotFound     = "PAYMENT_NOT_FOUND"
	ErrCodeInvalidCard         = "INVALID_CARD"
	ErrCodeInvalidExpiry       = "INVALID_EXPIRY"
	ErrCodeInvalidCVV          = "INVALID_CVV"
	ErrCodeInvalidOTP          = "INVALID_OTP"
	ErrCodeReceiptNotFound     = "ORDER_NOT_FOUND"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeBackendUnavailable  = "BACKEND_ERROR"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodePaymentInProgress   = "PAYMENT_IN_PROGRESS"
	ErrCodeCheckoutAlreadyDone = "CHECKOUT_PLACED"
	ErrCodeInvalidAmount       = "INVALID_AMOUNT"
	ErrCodeBookingNotFound     = "BOOKING_NOT_FOUND"
	ErrCodeBookingAlreadyDone  = "BOOKING_CONFIRMED"
	ErrCodeInvalidBooking      = "INVALID_BOOKING"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that parameterised messages
// (e.g. minimum order amounts) still compare equal to their sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidCoupon       = NewDomainError(ErrCodeInvalidCoupon, "Invalid coupon code")
	ErrCouponMinOrder      = NewDomainError(ErrCodeCouponMinOrder, "Minimum order not reached for this coupon")
	ErrInvalidQuantity     = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrCartNotFound        = NewDomainError(ErrCodeCartNotFound, "Cart not found")
	ErrItemNotFound        = NewDomainError(ErrCodeItemNotFound, "Item not found in cart")
	ErrCartEmpty           = NewDomainError(ErrCodeCartEmpty, "Cart is empty")
	ErrMedicineNotFound    = NewDomainError(ErrCodeMedicineNotFound, "Medicine not found")
	ErrCheckoutNotFound    = NewDomainError(ErrCodeCheckoutNotFound, "Checkout not found")
	ErrInvalidTransition   = NewDomainError(ErrCodeInvalidTransition, "Action not allowed at the current step")
	ErrPaymentMethod       = NewDomainError(ErrCodePaymentMethod, "Please choose a valid payment method")
	ErrPaymentNotFound     = NewDomainError(ErrCodePaymentNotFound, "Payment session not found")
	ErrPaymentInProgress   = NewDomainError(ErrCodePaymentInProgress, "Payment is already being processed")
	ErrInvalidCardNumber   = NewDomainError(ErrCodeInvalidCard, "Invalid card number")
	ErrInvalidExpiry       = NewDomainError(ErrCodeInvalidExpiry, "Invalid or expired card expiry date")
	ErrInvalidCVV          = NewDomainError(ErrCodeInvalidCVV, "Invalid CVV")
	ErrInvalidOTP          = NewDomainError(ErrCodeInvalidOTP, "Invalid OTP")
	ErrEmailRequired       = NewDomainError(ErrCodeMissingField, "Email is required")
	ErrReceiptNotFound     = NewDomainError(ErrCodeReceiptNotFound, "Order not found")
	ErrAuthRequired        = NewDomainError(ErrCodeUnauthorised, "Session expired. Please login again.")
	ErrCheckoutAlreadyDone = NewDomainError(ErrCodeCheckoutAlreadyDone, "Order has already been placed")
	ErrInvalidAmount       = NewDomainError(ErrCodeInvalidAmount, "Payment amount must be greater than zero")
	ErrBookingNotFound     = NewDomainError(ErrCodeBookingNotFound, "Booking not found")
	ErrBookingAlreadyDone  = NewDomainError(ErrCodeBookingAlreadyDone, "Booking has already been confirmed")
	ErrBookingInProgress   = NewDomainError(ErrCodeInvalidTransition, "Booking is already being submitted")
	ErrDoctorRequired      = NewDomainError(ErrCodeMissingField, "Please select a doctor.")
	ErrInvalidAge          = NewDomainError(ErrCodeInvalidBooking, "Age must be greater than zero")
	ErrInvalidDate         = NewDomainError(ErrCodeInvalidBooking, "Preferred date must be YYYY-MM-DD")
	ErrInvalidTimeSlot     = NewDomainError(ErrCodeInvalidBooking, "Please choose an available time slot")
)

// MissingFieldError reports a required field that was left blank.
func MissingFieldError(field string) *DomainError {
	return NewDomainError(ErrCodeMissingField, fmt.Sprintf("%s is required", field))
}

// CouponMinOrderError reports the minimum order a coupon needs.
func CouponMinOrderError(minOrder float64) *DomainError {
	return NewDomainError(ErrCodeCouponMinOrder, fmt.Sprintf("Minimum order of $%g required for this coupon", minOrder))
}

// BackendError wraps a failure talking to the external MediPlus backend.
// Status is zero when no response was received.
type BackendError struct {
	Status  int
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("backend unreachable: %s", e.Message)
	}
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// AsDomainError extracts a DomainError from an error chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
