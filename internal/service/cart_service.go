package service

import (
	"context"
	"fmt"
	"strings"

	"mediplus/internal/cart"
	"mediplus/internal/coupon"
	"mediplus/internal/model"
	"mediplus/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	store        cart.Store
	medicineRepo repository.MedicineRepository
	validator    coupon.Validator
	pricing      cart.Pricing
	logger       zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	store cart.Store,
	medicineRepo repository.MedicineRepository,
	validator coupon.Validator,
	pricing cart.Pricing,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		store:        store,
		medicineRepo: medicineRepo,
		validator:    validator,
		pricing:      pricing,
		logger:       logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) respond(c model.Cart, err error) (*model.CartResponse, error) {
	if err != nil {
		return nil, err
	}
	return &model.CartResponse{
		Cart:    c,
		Summary: s.pricing.Summarize(c.Items, c.AppliedCoupon),
	}, nil
}

func (s *cartService) Create(ctx context.Context) (*model.CartResponse, error) {
	return s.respond(s.store.Create(ctx))
}

func (s *cartService) Get(ctx context.Context, id uuid.UUID) (*model.CartResponse, error) {
	return s.respond(s.store.Get(ctx, id))
}

func (s *cartService) AddItem(ctx context.Context, id uuid.UUID, req model.AddItemRequest) (*model.CartResponse, error) {
	medicineID := strings.TrimSpace(req.MedicineID)
	if medicineID == "" {
		return nil, model.MissingFieldError("Medicine ID")
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, model.ErrInvalidQuantity
	}

	medicine, err := s.medicineRepo.GetByID(ctx, medicineID)
	if err != nil {
		s.logger.Error().Err(err).Str("medicine_id", medicineID).Msg("failed to resolve medicine")
		return nil, fmt.Errorf("failed to resolve medicine: %w", err)
	}
	if medicine == nil {
		return nil, model.ErrMedicineNotFound
	}

	item := model.CartItem{
		ID:            medicine.ID,
		Name:          medicine.Name,
		Price:         medicine.Price,
		Quantity:      quantity,
		OriginalPrice: medicine.OriginalPrice,
		Prescription:  medicine.Prescription,
		ImageURL:      medicine.ImageURL,
	}

	resp, err := s.respond(s.store.Add(ctx, id, item))
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("cart_id", id.String()).
		Str("medicine_id", medicine.ID).
		Int("quantity", quantity).
		Msg("item added to cart")

	return resp, nil
}

func (s *cartService) Increase(ctx context.Context, id uuid.UUID, itemID string) (*model.CartResponse, error) {
	return s.respond(s.store.Increase(ctx, id, itemID))
}

func (s *cartService) Decrease(ctx context.Context, id uuid.UUID, itemID string) (*model.CartResponse, error) {
	return s.respond(s.store.Decrease(ctx, id, itemID))
}

func (s *cartService) Remove(ctx context.Context, id uuid.UUID, itemID string) (*model.CartResponse, error) {
	return s.respond(s.store.Remove(ctx, id, itemID))
}

func (s *cartService) Clear(ctx context.Context, id uuid.UUID) (*model.CartResponse, error) {
	return s.respond(s.store.Clear(ctx, id))
}

func (s *cartService) ApplyCoupon(ctx context.Context, id uuid.UUID, code string) (*model.CartResponse, error) {
	if strings.TrimSpace(code) == "" {
		return nil, model.MissingFieldError("Coupon code")
	}

	resp, err := s.respond(s.store.Update(ctx, id, func(c *model.Cart) error {
		subtotal := cart.Subtotal(c.Items).InexactFloat64()
		found, err := s.validator.Validate(ctx, code, subtotal)
		if err != nil {
			return err
		}
		c.AppliedCoupon = &found
		return nil
	}))
	if err != nil {
		s.logger.Debug().Err(err).Str("cart_id", id.String()).Str("coupon_code", code).Msg("coupon rejected")
		return nil, err
	}

	s.logger.Info().
		Str("cart_id", id.String()).
		Str("coupon_code", resp.Cart.AppliedCoupon.Code).
		Float64("coupon_discount", resp.Summary.CouponDiscount).
		Msg("coupon applied")

	return resp, nil
}

func (s *cartService) RemoveCoupon(ctx context.Context, id uuid.UUID) (*model.CartResponse, error) {
	return s.respond(s.store.Update(ctx, id, func(c *model.Cart) error {
		c.AppliedCoupon = nil
		return nil
	}))
}

func (s *cartService) Coupons() []model.Coupon {
	return s.validator.Coupons()
}
