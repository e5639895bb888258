package booking

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

// Record is a lab booking in progress or booked.
type Record struct {
	ID     uuid.UUID
	Wizard Wizard
	// Submitting is set while the booking is being sent to the backend.
	Submitting bool
	LastError  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// View renders the record for API responses.
func (r Record) View() model.LabBooking {
	return model.LabBooking{
		ID:         r.ID,
		Step:       r.Wizard.Step.String(),
		StepNumber: int(r.Wizard.Step),
		Test:       r.Wizard.Test,
		Contact:    r.Wizard.Contact,
		Schedule:   r.Wizard.Schedule,
		Submitting: r.Submitting,
		Token:      r.Wizard.Token,
		LastError:  r.LastError,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// Store owns lab booking records.
type Store interface {
	Create(ctx context.Context, w Wizard) (Record, error)
	Get(ctx context.Context, id uuid.UUID) (Record, error)

	// Update applies fn atomically. If fn returns an error the record is left unchanged.
	Update(ctx context.Context, id uuid.UUID, fn func(r *Record) error) (Record, error)

	expiry.Sweeper
}

type memoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]Record
	clock   clockwork.Clock
	logger  zerolog.Logger
}

// NewMemoryStore creates an in-memory booking store. A nil clock means the real clock.
func NewMemoryStore(clock clockwork.Clock, logger zerolog.Logger) Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &memoryStore{
		records: make(map[uuid.UUID]Record),
		clock:   clock,
		logger:  logger.With().Str("component", "booking-store").Logger(),
	}
}

func (s *memoryStore) Create(ctx context.Context, w Wizard) (Record, error) {
	now := s.clock.Now()
	r := Record{ID: uuid.New(), Wizard: w, CreatedAt: now, UpdatedAt: now}

	s.mu.Lock()
	s.records[r.ID] = r
	s.mu.Unlock()

	s.logger.Debug().
		Str("booking_id", r.ID.String()).
		Str("labtest_id", w.Test.ID).
		Msg("lab booking created")

	return r, nil
}

func (s *memoryStore) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return Record{}, model.ErrBookingNotFound
	}
	return r, nil
}

func (s *memoryStore) Update(ctx context.Context, id uuid.UUID, fn func(r *Record) error) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return Record{}, model.ErrBookingNotFound
	}

	working := r
	if err := fn(&working); err != nil {
		return r, err
	}
	working.UpdatedAt = s.clock.Now()
	s.records[id] = working
	return working, nil
}

// Sweep drops booked records after the done cutoff and the rest after the
// idle cutoff. A booking being submitted is kept.
func (s *memoryStore) Sweep(idleBefore, doneBefore time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, r := range s.records {
		cutoff := idleBefore
		if r.Wizard.Step == StepBooked {
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
