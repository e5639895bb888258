package model

// DiscountType tells how a coupon's discount value is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

// Coupon is a named discount rule with a minimum-order threshold.
type Coupon struct {
	Code        string       `json:"code" yaml:"code"`
	Discount    float64      `json:"discount" yaml:"discount"`
	Type        DiscountType `json:"type" yaml:"type"`
	Description string       `json:"description" yaml:"description"`
	MinOrder    float64      `json:"minOrder" yaml:"minOrder"`
}
