package cart

import (
	"context"
	"sync"
	"time"

	"mediplus/internal/expiry"
	"mediplus/internal/model"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Store owns cart state. Every mutation returns a snapshot of the cart
// after the change; callers never hold a reference into the store.
type Store interface {
	// Create makes a new empty cart.
	Create(ctx context.Context) (model.Cart, error)

	// Get returns a snapshot of a cart.
	Get(ctx context.Context, id uuid.UUID) (model.Cart, error)

	// Add inserts an item, or adds its quantity to an existing line with the same ID.
	Add(ctx context.Context, id uuid.UUID, item model.CartItem) (model.Cart, error)

	// Increase adds one to a line's quantity.
	Increase(ctx context.Context, id uuid.UUID, itemID string) (model.Cart, error)

	// Decrease removes one from a line's quantity. A line at quantity 1 is left unchanged.
	Decrease(ctx context.Context, id uuid.UUID, itemID string) (model.Cart, error)

	// Remove deletes a line.
	Remove(ctx context.Context, id uuid.UUID, itemID string) (model.Cart, error)

	// Clear empties the cart and drops any applied coupon.
	Clear(ctx context.Context, id uuid.UUID) (model.Cart, error)

	// Update applies fn to the cart atomically. If fn returns an error
	// the cart is left unchanged.
	Update(ctx context.Context, id uuid.UUID, fn func(c *model.Cart) error) (model.Cart, error)

	// Sweep drops carts untouched since idleBefore. Carts are never finished.
	expiry.Sweeper
}

// memoryStore implements Store in process memory.
type memoryStore struct {
	mu     sync.Mutex
	carts  map[uuid.UUID]*model.Cart
	clock  clockwork.Clock
	logger zerolog.Logger
}

// NewMemoryStore creates an in-memory cart store. A nil clock means the real clock.
func NewMemoryStore(clock clockwork.Clock, logger zerolog.Logger) Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &memoryStore{
		carts:  make(map[uuid.UUID]*model.Cart),
		clock:  clock,
		logger: logger.With().Str("component", "cart-store").Logger(),
	}
}

func (s *memoryStore) Create(ctx context.Context) (model.Cart, error) {
	now := s.clock.Now()
	c := &model.Cart{
		ID:        uuid.New(),
		Items:     []model.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.carts[c.ID] = c
	s.mu.Unlock()

	s.logger.Debug().Str("cart_id", c.ID.String()).Msg("cart created")

	return snapshot(c), nil
}

func (s *memoryStore) Get(ctx context.Context, id uuid.UUID) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[id]
	if !ok {
		return model.Cart{}, model.ErrCartNotFound
	}
	return snapshot(c), nil
}

func (s *memoryStore) Add(ctx context.Context, id uuid.UUID, item model.CartItem) (model.Cart, error) {
	if item.Quantity < 1 {
		return model.Cart{}, model.ErrInvalidQuantity
	}

	return s.Update(ctx, id, func(c *model.Cart) error {
		if i := indexOf(c.Items, item.ID); i >= 0 {
			c.Items[i].Quantity += item.Quantity
			return nil
		}
		c.Items = append(c.Items, item)
		return nil
	})
}

func (s *memoryStore) Increase(ctx context.Context, id uuid.UUID, itemID string) (model.Cart, error) {
	return s.Update(ctx, id, func(c *model.Cart) error {
		i := indexOf(c.Items, itemID)
		if i < 0 {
			return model.ErrItemNotFound
		}
		c.Items[i].Quantity++
		return nil
	})
}

func (s *memoryStore) Decrease(ctx context.Context, id uuid.UUID, itemID string) (model.Cart, error) {
	return s.Update(ctx, id, func(c *model.Cart) error {
		i := indexOf(c.Items, itemID)
		if i < 0 {
			return model.ErrItemNotFound
		}
		if c.Items[i].Quantity > 1 {
			c.Items[i].Quantity--
		}
		return nil
	})
}

func (s *memoryStore) Remove(ctx context.Context, id uuid.UUID, itemID string) (model.Cart, error) {
	return s.Update(ctx, id, func(c *model.Cart) error {
		i := indexOf(c.Items, itemID)
		if i < 0 {
			return model.ErrItemNotFound
		}
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return nil
	})
}

func (s *memoryStore) Clear(ctx context.Context, id uuid.UUID) (model.Cart, error) {
	return s.Update(ctx, id, func(c *model.Cart) error {
		c.Items = []model.CartItem{}
		c.AppliedCoupon = nil
		return nil
	})
}

func (s *memoryStore) Update(ctx context.Context, id uuid.UUID, fn func(c *model.Cart) error) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.carts[id]
	if !ok {
		return model.Cart{}, model.ErrCartNotFound
	}

	// Mutate a copy so a failing fn leaves the stored cart untouched.
	working := snapshot(current)
	if err := fn(&working); err != nil {
		return model.Cart{}, err
	}
	working.UpdatedAt = s.clock.Now()
	s.carts[id] = &working

	return snapshot(&working), nil
}

func (s *memoryStore) Sweep(idleBefore, _ time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, c := range s.carts {
		if c.UpdatedAt.Before(idleBefore) {
			delete(s.carts, id)
			dropped++
		}
	}
	return dropped
}

func indexOf(items []model.CartItem, itemID string) int {
	for i := range items {
		if items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func snapshot(c *model.Cart) model.Cart {
	out := *c
	out.Items = make([]model.CartItem, len(c.Items))
	copy(out.Items, c.Items)
	if c.AppliedCoupon != nil {
		coupon := *c.AppliedCoupon
		out.AppliedCoupon = &coupon
	}
	return out
}
