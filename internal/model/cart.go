package model

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a single medicine line in a cart.
type CartItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	Quantity      int      `json:"quantity"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Prescription  bool     `json:"prescription,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
}

// Cart holds the line items and the coupon currently applied to them.
type Cart struct {
	ID            uuid.UUID  `json:"id"`
	Items         []CartItem `json:"items"`
	AppliedCoupon *Coupon    `json:"appliedCoupon,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// PriceSummary is the computed pricing of a cart.
type PriceSummary struct {
	ItemCount       int     `json:"itemCount"`
	Subtotal        float64 `json:"subtotal"`
	OriginalTotal   float64 `json:"originalTotal"`
	ProductDiscount float64 `json:"productDiscount"`
	CouponDiscount  float64 `json:"couponDiscount"`
	DeliveryCharge  float64 `json:"deliveryCharge"`
	Total           float64 `json:"total"`
	TotalSavings    float64 `json:"totalSavings"`
}

// CartResponse is a cart together with its price summary.
type CartResponse struct {
	Cart    Cart         `json:"cart"`
	Summary PriceSummary `json:"summary"`
}

// AddItemRequest represents the request payload for adding a medicine to a cart.
type AddItemRequest struct {
	MedicineID string `json:"medicineId"`
	Quantity   int    `json:"quantity"`
}

// ApplyCouponRequest represents the request payload for applying a coupon.
type ApplyCouponRequest struct {
	Code string `json:"code"`
}
