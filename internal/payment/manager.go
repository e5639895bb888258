package payment

import (
	"context"
	"strings"
	"sync"
	"time"

	"mediplus/internal/model"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Options tailor a session to its caller.
type Options struct {
	// Method, when set, is the only method the session accepts.
	Method model.PaymentMethod
	// OnSuccess is invoked once the payment completes.
	OnSuccess SuccessFunc
}

// Manager owns the open payment sessions.
type Manager struct {
	cfg       Config
	confirmer Confirmer
	clock     clockwork.Clock
	logger    zerolog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	runs     sync.WaitGroup
}

// NewManager creates a session manager. confirmer may be nil.
func NewManager(cfg Config, confirmer Confirmer, clock clockwork.Clock, logger zerolog.Logger) *Manager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{
		cfg:       cfg,
		confirmer: confirmer,
		clock:     clock,
		logger:    logger.With().Str("component", "payment-manager").Logger(),
		sessions:  make(map[uuid.UUID]*Session),
	}
}

// Open starts a session charging plan.Price.
func (m *Manager) Open(plan model.PaymentPlan, opts Options) (*Session, error) {
	if strings.TrimSpace(plan.Name) == "" {
		return nil, model.MissingFieldError("Plan name")
	}
	if plan.Price <= 0 {
		return nil, model.ErrInvalidAmount
	}
	if opts.Method != "" && !opts.Method.Immediate() {
		return nil, model.ErrPaymentMethod
	}

	s := &Session{
		id:           uuid.New(),
		bookingID:    NewBookingID(),
		plan:         plan,
		lockedMethod: opts.Method,
		createdAt:    m.clock.Now(),
		cfg:          m.cfg,
		clock:        m.clock,
		confirmer:    m.confirmer,
		onSuccess:    opts.OnSuccess,
		runs:         &m.runs,
		state:        StateDetails,
		method:       opts.Method,
	}
	s.touched = s.createdAt
	s.logger = m.logger.With().
		Str("payment_id", s.id.String()).
		Str("booking_id", s.bookingID).
		Logger()

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	s.logger.Info().
		Str("plan", plan.Name).
		Float64("amount", plan.Price).
		Msg("payment session opened")

	return s, nil
}

// Get returns an open session.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, model.ErrPaymentNotFound
	}
	return s, nil
}

// Abandon removes a session and stops any payment it is still processing.
// Unknown ids are ignored.
func (m *Manager) Abandon(id uuid.UUID) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.abandon()
	}
}

// Sweep drops sessions that succeeded before doneBefore and any other session
// untouched since idleBefore. Sessions verifying or processing are kept.
func (m *Manager) Sweep(idleBefore, doneBefore time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := 0
	for id, s := range m.sessions {
		touched, state, busy := s.idleSince()
		cutoff := idleBefore
		if state == StateSuccess {
			cutoff = doneBefore
		}
		if busy || !touched.Before(cutoff) {
			continue
		}
		delete(m.sessions, id)
		dropped++
	}
	return dropped
}

// Wait blocks until every processing run has finished or ctx is done.
func (m *Manager) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.runs.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
