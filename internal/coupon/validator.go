package coupon

import (
	"context"
	"fmt"

	"mediplus/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// validator implements Validator over a catalog that is read-only after start-up.
type validator struct {
	catalog Catalog
	logger  zerolog.Logger
}

// ValidatorConfig holds configuration for the coupon validator.
type ValidatorConfig struct {
	// FilePaths lists catalog files merged over the built-in catalog.
	// Later files replace codes defined by earlier ones.
	FilePaths []string

	// SkipDefaults drops the built-in catalog, leaving only file coupons.
	SkipDefaults bool
}

// DefaultValidatorConfig returns the default validator configuration.
func DefaultValidatorConfig() *ValidatorConfig {
	return &ValidatorConfig{}
}

// NewValidator builds the catalog once: the built-in coupons (unless skipped)
// followed by every configured file in order. Files are fetched concurrently
// and the first failure aborts the rest.
func NewValidator(ctx context.Context, config *ValidatorConfig, loader Loader, logger zerolog.Logger) (Validator, error) {
	if config == nil {
		config = DefaultValidatorConfig()
	}
	logger = logger.With().Str("component", "coupon-validator").Logger()

	loaded := make([]Catalog, len(config.FilePaths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range config.FilePaths {
		g.Go(func() error {
			c, err := loader.Load(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to load coupon catalog %s: %w", path, err)
			}
			loaded[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("coupon catalog load failed")
		return nil, err
	}

	merged := NewCatalog()
	if !config.SkipDefaults {
		merged.Merge(DefaultCatalog())
	}
	for i, c := range loaded {
		merged.Merge(c)
		logger.Debug().Str("file", config.FilePaths[i]).Int("size", c.Size()).Msg("coupon catalog merged")
	}

	logger.Info().
		Int("files", len(config.FilePaths)).
		Bool("defaults", !config.SkipDefaults).
		Int("coupons", merged.Size()).
		Msg("coupon validator ready")

	return &validator{catalog: merged, logger: logger}, nil
}

// Validate resolves a coupon code for an order subtotal.
func (v *validator) Validate(ctx context.Context, code string, subtotal float64) (model.Coupon, error) {
	coupon, ok := v.catalog.Lookup(code)
	if !ok {
		v.logger.Debug().
			Str("coupon_code", code).
			Msg("coupon code not in catalog")
		return model.Coupon{}, model.ErrInvalidCoupon
	}

	if subtotal < coupon.MinOrder {
		v.logger.Debug().
			Str("coupon_code", coupon.Code).
			Float64("subtotal", subtotal).
			Float64("min_order", coupon.MinOrder).
			Msg("minimum order not reached")
		return model.Coupon{}, model.CouponMinOrderError(coupon.MinOrder)
	}

	v.logger.Debug().
		Str("coupon_code", coupon.Code).
		Float64("subtotal", subtotal).
		Msg("coupon validated successfully")

	return coupon, nil
}

// Coupons lists the catalog.
func (v *validator) Coupons() []model.Coupon {
	return v.catalog.All()
}

// Close releases resources held by the validator.
func (v *validator) Close() error {
	v.logger.Info().Msg("coupon validator closed")
	return nil
}
