// Package cart owns cart state and the pricing rules applied to it.
package cart

import (
	"mediplus/internal/model"

	"github.com/shopspring/decimal"
)

// Pricing computes cart totals. The zero value charges no delivery fee;
// use DefaultPricing or NewPricing.
type Pricing struct {
	FreeDeliveryThreshold decimal.Decimal
	DeliveryFee           decimal.Decimal
}

// DefaultPricing waives delivery from a subtotal of 50 and charges 4.99 below it.
func DefaultPricing() Pricing {
	return NewPricing(50, 4.99)
}

// NewPricing creates pricing rules with the given threshold and delivery fee.
func NewPricing(freeDeliveryThreshold, deliveryFee float64) Pricing {
	return Pricing{
		FreeDeliveryThreshold: decimal.NewFromFloat(freeDeliveryThreshold),
		DeliveryFee:           decimal.NewFromFloat(deliveryFee),
	}
}

// Subtotal returns Σ price × quantity.
func Subtotal(items []model.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

// OriginalTotal returns Σ (originalPrice or price) × quantity.
func OriginalTotal(items []model.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		price := item.Price
		if item.OriginalPrice != nil {
			price = *item.OriginalPrice
		}
		sum = sum.Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

// CouponDiscount returns the discount a coupon grants on subtotal.
// It is zero when no coupon is applied or the minimum order is not met.
// Flat discounts are not clamped to the subtotal.
func CouponDiscount(subtotal decimal.Decimal, coupon *model.Coupon) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}
	if subtotal.LessThan(decimal.NewFromFloat(coupon.MinOrder)) {
		return decimal.Zero
	}

	discount := decimal.NewFromFloat(coupon.Discount)
	if coupon.Type == model.DiscountPercentage {
		return subtotal.Mul(discount).Div(decimal.NewFromInt(100)).Round(2)
	}
	return discount
}

// DeliveryCharge returns the delivery fee for a subtotal.
func (p Pricing) DeliveryCharge(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return p.DeliveryFee
}

// Summarize prices a cart.
func (p Pricing) Summarize(items []model.CartItem, coupon *model.Coupon) model.PriceSummary {
	subtotal := Subtotal(items)
	original := OriginalTotal(items)
	productDiscount := original.Sub(subtotal)
	couponDiscount := CouponDiscount(subtotal, coupon)
	delivery := p.DeliveryCharge(subtotal)
	total := subtotal.Sub(couponDiscount).Add(delivery)

	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	return model.PriceSummary{
		ItemCount:       count,
		Subtotal:        money(subtotal),
		OriginalTotal:   money(original),
		ProductDiscount: money(productDiscount),
		CouponDiscount:  money(couponDiscount),
		DeliveryCharge:  money(delivery),
		Total:           money(total),
		TotalSavings:    money(productDiscount.Add(couponDiscount)),
	}
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
