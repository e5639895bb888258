package checkout

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

// Record is a checkout in progress or placed.
type Record struct {
	ID              uuid.UUID
	CartID          uuid.UUID
	Wizard          Wizard
	AwaitingPayment bool
	// Submitting is set while the order is being sent to the backend.
	Submitting       bool
	PaymentSessionID *uuid.UUID
	ReceiptID        *uuid.UUID
	LastError        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// View renders the record for API responses.
func (r Record) View(summary *model.PriceSummary) model.Checkout {
	return model.Checkout{
		ID:               r.ID,
		CartID:           r.CartID,
		Step:             r.Wizard.Step.String(),
		StepNumber:       int(r.Wizard.Step),
		Delivery:         r.Wizard.Delivery,
		PaymentMethod:    r.Wizard.Method,
		AwaitingPayment:  r.AwaitingPayment,
		Submitting:       r.Submitting,
		PaymentSessionID: r.PaymentSessionID,
		OrderID:          r.Wizard.OrderID,
		ReceiptID:        r.ReceiptID,
		LastError:        r.LastError,
		Summary:          summary,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// Store owns checkout records.
type Store interface {
	// Create starts a checkout for a cart at the delivery step.
	Create(ctx context.Context, cartID uuid.UUID) (Record, error)

	// Get returns a copy of a record.
	Get(ctx context.Context, id uuid.UUID) (Record, error)

	// Update applies fn atomically. If fn returns an error the record is left unchanged.
	Update(ctx context.Context, id uuid.UUID, fn func(r *Record) error) (Record, error)

	// Sweep drops placed checkouts after the done cutoff and idle ones after
	// the idle cutoff. A checkout submitting its order is kept.
	expiry.Sweeper
}

type memoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]Record
	clock   clockwork.Clock
	logger  zerolog.Logger
}

// NewMemoryStore creates an in-memory checkout store. A nil clock means the real clock.
func NewMemoryStore(clock clockwork.Clock, logger zerolog.Logger) Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &memoryStore{
		records: make(map[uuid.UUID]Record),
		clock:   clock,
		logger:  logger.With().Str("component", "checkout-store").Logger(),
	}
}

func (s *memoryStore) Create(ctx context.Context, cartID uuid.UUID) (Record, error) {
	now := s.clock.Now()
	r := Record{
		ID:        uuid.New(),
		CartID:    cartID,
		Wizard:    New(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.records[r.ID] = r
	s.mu.Unlock()

	s.logger.Debug().
		Str("checkout_id", r.ID.String()).
		Str("cart_id", cartID.String()).
		Msg("checkout created")

	return r, nil
}

func (s *memoryStore) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return Record{}, model.ErrCheckoutNotFound
	}
	return r, nil
}

func (s *memoryStore) Update(ctx context.Context, id uuid.UUID, fn func(r *Record) error) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return Record{}, model.ErrCheckoutNotFound
	}

	working := r
	if err := fn(&working); err != nil {
		return r, err
	}
	working.UpdatedAt = s.clock.Now()
	s.records[id] = working

	return working, nil
}

func (s *memoryStore) Sweep(idleBefore, doneBefore time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, r := range s.records {
		cutoff := idleBefore
		if r.Wizard.Step == StepPlaced {
			cutoff = doneBefore
		}
		if r.Submitting || !r.UpdatedAt.Before(cutoff) {
			continue
		}
		delete(s.records, id)
		dropped++
	}
	return dropped
}
