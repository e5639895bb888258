package cart

import (
	"testing"

	"mediplus/internal/model"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

var med30 = &model.Coupon{Code: "MED30", Discount: 30, Type: model.DiscountPercentage, MinOrder: 50}

func TestSummarize_NoCoupon(t *testing.T) {
	items := []model.CartItem{
		{ID: "1", Price: 30, Quantity: 2},
		{ID: "2", Price: 25, Quantity: 1},
	}

	s := DefaultPricing().Summarize(items, nil)

	assert.Equal(t, 85.0, s.Subtotal)
	assert.Equal(t, 0.0, s.DeliveryCharge)
	assert.Equal(t, 0.0, s.CouponDiscount)
	assert.Equal(t, 85.0, s.Total)
	assert.Equal(t, 3, s.ItemCount)
}

func TestSummarize_PercentageCoupon(t *testing.T) {
	items := []model.CartItem{
		{ID: "1", Price: 30, Quantity: 2},
		{ID: "2", Price: 25, Quantity: 1},
	}

	s := DefaultPricing().Summarize(items, med30)

	assert.Equal(t, 85.0, s.Subtotal)
	assert.Equal(t, 25.5, s.CouponDiscount)
	assert.Equal(t, 59.5, s.Total)
	assert.Equal(t, 25.5, s.TotalSavings)
}

func TestSummarize_CouponBelowMinOrderGrantsNothing(t *testing.T) {
	items := []model.CartItem{{ID: "1", Price: 20, Quantity: 2}}

	s := DefaultPricing().Summarize(items, med30)

	assert.Equal(t, 0.0, s.CouponDiscount)
	assert.Equal(t, 44.99, s.Total)
}

func TestSummarize_FlatCouponIsNotClamped(t *testing.T) {
	items := []model.CartItem{{ID: "1", Price: 10, Quantity: 1}}
	save20 := &model.Coupon{Code: "SAVE20", Discount: 20, Type: model.DiscountFlat}

	s := DefaultPricing().Summarize(items, save20)

	assert.Equal(t, 10.0, s.Subtotal)
	assert.Equal(t, 20.0, s.CouponDiscount)
	assert.Equal(t, 4.99, s.DeliveryCharge)
	assert.InDelta(t, -5.01, s.Total, 1e-9)
}

func TestSummarize_ProductDiscount(t *testing.T) {
	items := []model.CartItem{
		{ID: "1", Price: 8, OriginalPrice: ptr(10), Quantity: 3},
		{ID: "2", Price: 5, Quantity: 1},
	}

	s := DefaultPricing().Summarize(items, nil)

	assert.Equal(t, 29.0, s.Subtotal)
	assert.Equal(t, 35.0, s.OriginalTotal)
	assert.Equal(t, 6.0, s.ProductDiscount)
	assert.Equal(t, 6.0, s.TotalSavings)
}

func TestDeliveryCharge_Threshold(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		expected float64
	}{
		{name: "Below threshold", price: 49.99, expected: 4.99},
		{name: "At threshold", price: 50, expected: 0},
		{name: "Above threshold", price: 120, expected: 0},
		{name: "Empty cart", price: 0, expected: 4.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var items []model.CartItem
			if tt.price > 0 {
				items = []model.CartItem{{ID: "1", Price: tt.price, Quantity: 1}}
			}
			s := DefaultPricing().Summarize(items, nil)
			assert.Equal(t, tt.expected, s.DeliveryCharge)
		})
	}
}

func TestSummarize_TotalIdentity(t *testing.T) {
	carts := [][]model.CartItem{
		{{ID: "a", Price: 12.49, Quantity: 3}},
		{{ID: "a", Price: 0.99, Quantity: 7}, {ID: "b", Price: 15.25, Quantity: 2}},
		{{ID: "a", Price: 99.95, Quantity: 1}},
	}
	coupons := []*model.Coupon{
		nil,
		med30,
		{Code: "FIRST50", Discount: 50, Type: model.DiscountPercentage},
		{Code: "SAVE20", Discount: 20, Type: model.DiscountFlat},
	}

	pricing := NewPricing(50, 4.99)
	for _, items := range carts {
		for _, c := range coupons {
			s := pricing.Summarize(items, c)
			assert.InDelta(t, s.Subtotal-s.CouponDiscount+s.DeliveryCharge, s.Total, 1e-9)
			assert.Equal(t, s.Subtotal >= 50, s.DeliveryCharge == 0)
			assert.InDelta(t, s.ProductDiscount+s.CouponDiscount, s.TotalSavings, 1e-9)
		}
	}
}

func TestNewPricing_CustomRules(t *testing.T) {
	items := []model.CartItem{{ID: "1", Price: 60, Quantity: 1}}

	s := NewPricing(75, 2.5).Summarize(items, nil)

	assert.Equal(t, 2.5, s.DeliveryCharge)
	assert.Equal(t, 62.5, s.Total)
}
