package coupon

import (
	"fmt"
	"sort"
	"strings"

	"mediplus/internal/model"
)

// MapCatalog implements Catalog using a map for O(1) lookups.
type MapCatalog struct {
	coupons map[string]model.Coupon
}

// NewCatalog creates an empty map-based catalog.
func NewCatalog() *MapCatalog {
	return &MapCatalog{
		coupons: make(map[string]model.Coupon),
	}
}

// DefaultCatalog returns the built-in store coupons.
func DefaultCatalog() Catalog {
	c := NewCatalog()
	for _, coupon := range []model.Coupon{
		{Code: "FIRST50", Discount: 50, Type: model.DiscountPercentage, Description: "50% off on first order", MinOrder: 0},
		{Code: "MED30", Discount: 30, Type: model.DiscountPercentage, Description: "30% off on orders above $50", MinOrder: 50},
		{Code: "SAVE20", Discount: 20, Type: model.DiscountFlat, Description: "$20 flat discount", MinOrder: 0},
		{Code: "25NUFIT", Discount: 25, Type: model.DiscountPercentage, Description: "25% off - Max savings unlocked", MinOrder: 0},
	} {
		c.Add(coupon)
	}
	return c
}

// Lookup finds a coupon by code, ignoring case and surrounding blanks.
func (c *MapCatalog) Lookup(code string) (model.Coupon, bool) {
	coupon, ok := c.coupons[normalise(code)]
	return coupon, ok
}

// All returns every coupon, ordered by code.
func (c *MapCatalog) All() []model.Coupon {
	out := make([]model.Coupon, 0, len(c.coupons))
	for _, coupon := range c.coupons {
		out = append(out, coupon)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Size returns the number of coupons in the catalog.
func (c *MapCatalog) Size() int {
	return len(c.coupons)
}

// Add inserts or replaces a coupon. The stored code is normalised.
func (c *MapCatalog) Add(coupon model.Coupon) {
	coupon.Code = normalise(coupon.Code)
	c.coupons[coupon.Code] = coupon
}

// Merge copies every coupon from other into c, replacing equal codes.
func (c *MapCatalog) Merge(other Catalog) {
	for _, coupon := range other.All() {
		c.Add(coupon)
	}
}

func normalise(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// validateEntry checks a coupon read from a catalog file.
func validateEntry(coupon model.Coupon) error {
	if normalise(coupon.Code) == "" {
		return fmt.Errorf("coupon code is required")
	}
	if coupon.Type != model.DiscountPercentage && coupon.Type != model.DiscountFlat {
		return fmt.Errorf("coupon %s: invalid type %q (must be percentage or flat)", coupon.Code, coupon.Type)
	}
	if coupon.Discount < 0 {
		return fmt.Errorf("coupon %s: discount cannot be negative", coupon.Code)
	}
	if coupon.Type == model.DiscountPercentage && coupon.Discount > 100 {
		return fmt.Errorf("coupon %s: percentage discount cannot exceed 100", coupon.Code)
	}
	if coupon.MinOrder < 0 {
		return fmt.Errorf("coupon %s: minimum order cannot be negative", coupon.Code)
	}
	return nil
}
