package model

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the payment status sent along with an order.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
)

// OrderSubmission is everything the backend needs to create an order.
type OrderSubmission struct {
	Delivery      DeliveryInfo
	Items         []CartItem
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	CouponCode    string
	Summary       PriceSummary
	Prescription  *Upload
}

// Upload is an optional file attached to an order, e.g. a prescription scan.
type Upload struct {
	Filename string
	Content  io.Reader
}

// OrderReceipt is the local record of an order accepted by the backend.
type OrderReceipt struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	OrderID        string        `json:"orderId" db:"order_id"`
	CheckoutID     uuid.UUID     `json:"checkoutId" db:"checkout_id"`
	PaymentMethod  PaymentMethod `json:"paymentMethod" db:"payment_method"`
	PaymentStatus  PaymentStatus `json:"paymentStatus" db:"payment_status"`
	CouponCode     *string       `json:"couponCode,omitempty" db:"coupon_code"`
	Subtotal       float64       `json:"subtotal" db:"subtotal"`
	CouponDiscount float64       `json:"couponDiscount" db:"coupon_discount"`
	DeliveryCharge float64       `json:"deliveryCharge" db:"delivery_charge"`
	Total          float64       `json:"total" db:"total"`
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`
}

// ReceiptItem is a line item recorded with a receipt.
type ReceiptItem struct {
	ID         uuid.UUID `json:"-" db:"id"`
	ReceiptID  uuid.UUID `json:"-" db:"receipt_id"`
	MedicineID string    `json:"medicineId" db:"medicine_id"`
	Name       string    `json:"name" db:"name"`
	Price      float64   `json:"price" db:"price"`
	Quantity   int       `json:"quantity" db:"quantity"`
}

// ReceiptResponse represents the response payload for a receipt.
type ReceiptResponse struct {
	OrderReceipt
	Items []ReceiptItem `json:"items"`
}
