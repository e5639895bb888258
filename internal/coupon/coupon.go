package coupon

import (
	"context"

	"mediplus/internal/model"
)

// Validator decides whether a coupon may be applied to an order.
type Validator interface {
	// Validate resolves a coupon code against the catalog for an order subtotal.
	// A coupon is accepted when:
	// - its code is in the catalog (case-insensitive)
	// - the subtotal reaches the coupon's minimum order
	Validate(ctx context.Context, code string, subtotal float64) (model.Coupon, error)

	// Coupons lists every coupon in the catalog, ordered by code.
	Coupons() []model.Coupon

	// Close releases resources held by the validator.
	Close() error
}

// Catalog is a set of coupons keyed by normalised code.
type Catalog interface {
	// Lookup finds a coupon by code, ignoring case and surrounding blanks.
	Lookup(code string) (model.Coupon, bool)

	// All returns every coupon, ordered by code.
	All() []model.Coupon

	// Size returns the number of coupons in the catalog.
	Size() int
}

// Loader defines the interface for loading coupon catalog files.
type Loader interface {
	// Load reads a YAML coupon catalog (gzip-compressed when the name ends in .gz).
	Load(ctx context.Context, filePath string) (Catalog, error)
}
