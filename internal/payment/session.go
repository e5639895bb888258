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

// State is a step of the payment flow.
type State int

const (
	StateDetails State = iota + 1
	StateCard
	StateUPI
	StateOTP
	StateProcessing
	StateSuccess
)

var stateNames = map[State]string{
	StateDetails:    "details",
	StateCard:       "card",
	StateUPI:        "upi",
	StateOTP:        "otp",
	StateProcessing: "processing",
	StateSuccess:    "success",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Step returns the step number shown to the user. Card and UPI share step 2.
func (s State) Step() int {
	switch s {
	case StateDetails:
		return 1
	case StateCard, StateUPI:
		return 2
	case StateOTP:
		return 3
	case StateProcessing:
		return 4
	case StateSuccess:
		return 5
	}
	return 0
}

// Confirmer sends the booking summary once a payment succeeds.
type Confirmer interface {
	SendConfirmation(ctx context.Context, confirmation model.Confirmation) error
}

// Result describes a completed payment.
type Result struct {
	PaymentID     uuid.UUID
	BookingID     string
	TransactionID string
	Method        model.PaymentMethod
	Email         string
	Name          string
	Amount        float64
}

// SuccessFunc finalises whatever the payment was for.
// It runs at most once per session, after the processing delay.
type SuccessFunc func(ctx context.Context, result Result) error

// Config holds merchant details and the simulated delays.
type Config struct {
	MerchantUPIID   string
	MerchantName    string
	ProcessingDelay time.Duration
	OTPDelay        time.Duration
}

type event any

type (
	detailsSubmitted  struct{ email, name string }
	methodChosen      struct{ method model.PaymentMethod }
	cardSubmitted     struct{ number, expiry, cvv string }
	otpSubmitted      struct{ otp string }
	upiConfirmed      struct{}
	wentBack          struct{}
	processingStarted struct{}
	processed         struct {
		txnID       string
		finalizeErr error
	}
	closed struct{}
)

// Session is one simulated payment. Its booking id is fixed for its lifetime.
type Session struct {
	id           uuid.UUID
	bookingID    string
	plan         model.PaymentPlan
	lockedMethod model.PaymentMethod
	createdAt    time.Time

	cfg       Config
	clock     clockwork.Clock
	confirmer Confirmer
	onSuccess SuccessFunc
	once      sync.Once
	runs      *sync.WaitGroup
	logger    zerolog.Logger

	mu          sync.Mutex
	state       State
	email       string
	name        string
	method      model.PaymentMethod
	cardLast4   string
	verifying   bool
	txnID       string
	finalizeErr error
	// gen is bumped on close so a run started earlier leaves the fresh state alone
	gen uint64
	// touched is the time of the last accepted transition
	touched time.Time
	// abandoned sessions are out of the manager; a pending run stops before confirming
	abandoned bool
}

// ID returns the session id.
func (s *Session) ID() uuid.UUID { return s.id }

// BookingID returns the booking id generated when the session was opened.
func (s *Session) BookingID() string { return s.bookingID }

// State returns the current step.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SubmitDetails records the contact details. An email is required.
func (s *Session) SubmitDetails(email, name string) error {
	return s.do(detailsSubmitted{email: email, name: name})
}

// ChooseMethod moves to the card or UPI form.
func (s *Session) ChooseMethod(method model.PaymentMethod) error {
	return s.do(methodChosen{method: method})
}

// Back returns to the previous form.
func (s *Session) Back() error {
	return s.do(wentBack{})
}

// SubmitCard validates the card form and moves to OTP entry.
func (s *Session) SubmitCard(number, expiry, cvv string) error {
	return s.do(cardSubmitted{number: number, expiry: expiry, cvv: cvv})
}

// SubmitOTP accepts a 6 digit OTP. Processing starts after the OTP delay.
func (s *Session) SubmitOTP(ctx context.Context, otp string) error {
	return s.start(ctx, otpSubmitted{otp: otp}, true)
}

// ConfirmUPI records that the user paid through their UPI app and starts processing.
func (s *Session) ConfirmUPI(ctx context.Context) error {
	return s.start(ctx, upiConfirmed{}, false)
}

// Close clears all form and verification state and returns to the details step.
// A run already processing still completes, without touching the cleared state.
func (s *Session) Close() {
	_ = s.do(closed{})
	s.logger.Info().Msg("payment session closed")
}

// UPIURI returns the UPI deep link for this session's amount.
func (s *Session) UPIURI() string {
	return BuildUPIURI(s.cfg.MerchantUPIID, s.cfg.MerchantName, s.plan.Price, "Booking "+s.bookingID)
}

// QR renders the UPI deep link as a PNG. Only available on the UPI step.
func (s *Session) QR(size int) ([]byte, error) {
	if s.State() != StateUPI {
		return nil, model.ErrInvalidTransition
	}
	return QRCode(s.UPIURI(), size)
}

// View returns the externally visible state.
func (s *Session) View() model.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := model.Payment{
		ID:            s.id,
		BookingID:     s.bookingID,
		Plan:          s.plan,
		State:         s.state.String(),
		StepNumber:    s.state.Step(),
		Email:         s.email,
		Name:          s.name,
		Method:        s.method,
		CardLast4:     s.cardLast4,
		Verifying:     s.verifying,
		TransactionID: s.txnID,
		CreatedAt:     s.createdAt,
	}
	if s.state == StateUPI {
		p.UPIURI = s.UPIURI()
	}
	if s.finalizeErr != nil {
		p.FinalizeError = s.finalizeErr.Error()
	}
	return p
}

func (s *Session) do(ev event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.apply(ev); err != nil {
		s.logger.Debug().Err(err).Str("state", s.state.String()).Msg("payment action rejected")
		return err
	}
	return nil
}

func (s *Session) start(ctx context.Context, ev event, verifyOTP bool) error {
	s.mu.Lock()
	if err := s.apply(ev); err != nil {
		s.mu.Unlock()
		s.logger.Debug().Err(err).Msg("payment action rejected")
		return err
	}
	gen := s.gen
	result := Result{
		PaymentID: s.id,
		BookingID: s.bookingID,
		Method:    s.method,
		Email:     s.email,
		Name:      s.name,
		Amount:    s.plan.Price,
	}
	s.mu.Unlock()

	s.runs.Add(1)
	go s.run(context.WithoutCancel(ctx), gen, result, verifyOTP)
	return nil
}

// apply is the only place the session changes state. Callers hold s.mu.
func (s *Session) apply(ev event) error {
	if err := s.transition(ev); err != nil {
		return err
	}
	s.touched = s.clock.Now()
	return nil
}

func (s *Session) transition(ev event) error {
	switch e := ev.(type) {
	case closed:
		s.gen++
		s.state = StateDetails
		s.email, s.name, s.cardLast4, s.txnID = "", "", "", ""
		s.method = s.lockedMethod
		s.verifying = false
		s.finalizeErr = nil
		return nil
	case processingStarted:
		if s.state != StateOTP || !s.verifying {
			return model.ErrInvalidTransition
		}
		s.verifying = false
		s.state = StateProcessing
		return nil
	case processed:
		if s.state != StateProcessing {
			return model.ErrInvalidTransition
		}
		s.txnID = e.txnID
		s.finalizeErr = e.finalizeErr
		s.state = StateSuccess
		return nil
	}

	if s.state == StateProcessing || s.verifying {
		return model.ErrPaymentInProgress
	}

	switch s.state {
	case StateDetails:
		switch e := ev.(type) {
		case detailsSubmitted:
			email := strings.TrimSpace(e.email)
			if email == "" {
				return model.ErrEmailRequired
			}
			s.email = email
			s.name = strings.TrimSpace(e.name)
			return nil
		case methodChosen:
			return s.chooseMethod(e.method)
		}

	case StateCard, StateUPI:
		switch e := ev.(type) {
		case methodChosen:
			return s.chooseMethod(e.method)
		case wentBack:
			s.state = StateDetails
			s.cardLast4 = ""
			return nil
		case cardSubmitted:
			if s.state != StateCard {
				break
			}
			last4, err := validateCard(e.number, e.expiry, e.cvv, s.clock.Now())
			if err != nil {
				return err
			}
			s.cardLast4 = last4
			s.state = StateOTP
			return nil
		case upiConfirmed:
			if s.state != StateUPI {
				break
			}
			s.state = StateProcessing
			return nil
		}

	case StateOTP:
		switch e := ev.(type) {
		case otpSubmitted:
			if !ValidOTP(strings.TrimSpace(e.otp)) {
				return model.ErrInvalidOTP
			}
			s.verifying = true
			return nil
		case wentBack:
			s.state = StateCard
			s.cardLast4 = ""
			return nil
		}
	}

	return model.ErrInvalidTransition
}

func (s *Session) chooseMethod(method model.PaymentMethod) error {
	if s.email == "" {
		return model.ErrEmailRequired
	}
	if s.lockedMethod != "" && method != s.lockedMethod {
		return model.ErrPaymentMethod
	}

	switch method {
	case model.PaymentCard:
		s.state = StateCard
	case model.PaymentUPI:
		s.state = StateUPI
	default:
		return model.ErrPaymentMethod
	}

	s.method = method
	s.cardLast4 = ""
	return nil
}

func (s *Session) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	<-s.clock.After(d)
}

// abandon closes the session for good. A run still processing stops before
// confirming the payment or invoking the success callback.
func (s *Session) abandon() {
	s.mu.Lock()
	s.abandoned = true
	_ = s.apply(closed{})
	s.mu.Unlock()

	s.logger.Info().Msg("payment session abandoned")
}

// idleSince reports when the session last changed and whether a run is pending on it.
func (s *Session) idleSince() (touched time.Time, state State, busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched, s.state, s.state == StateProcessing || s.verifying
}

// run waits out the simulated verification, then confirms and finalises the payment.
func (s *Session) run(ctx context.Context, gen uint64, result Result, verifyOTP bool) {
	defer s.runs.Done()

	if verifyOTP {
		s.sleep(s.cfg.OTPDelay)

		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			s.logger.Info().Msg("payment closed during OTP verification")
			return
		}
		_ = s.apply(processingStarted{})
		s.mu.Unlock()
	}

	s.sleep(s.cfg.ProcessingDelay)

	s.mu.Lock()
	abandoned := s.abandoned
	s.mu.Unlock()
	if abandoned {
		s.logger.Info().Msg("payment abandoned during processing")
		return
	}

	result.TransactionID = NewTransactionID(result.Method)

	if s.confirmer != nil {
		if err := s.confirmer.SendConfirmation(ctx, s.confirmation(result)); err != nil {
			s.logger.Warn().Err(err).Msg("failed to send payment confirmation")
		}
	}

	var finalizeErr error
	s.once.Do(func() {
		if s.onSuccess != nil {
			finalizeErr = s.onSuccess(ctx, result)
		}
	})
	if finalizeErr != nil {
		s.logger.Error().Err(finalizeErr).Msg("payment succeeded but finalisation failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		s.logger.Info().Str("transaction_id", result.TransactionID).Msg("payment completed after close")
		return
	}
	_ = s.apply(processed{txnID: result.TransactionID, finalizeErr: finalizeErr})

	s.logger.Info().
		Str("transaction_id", result.TransactionID).
		Str("method", string(result.Method)).
		Float64("amount", result.Amount).
		Msg("payment succeeded")
}

func (s *Session) confirmation(result Result) model.Confirmation {
	name := result.Name
	if name == "" {
		name = "UPI User"
		if result.Method == model.PaymentCard {
			name = "Card User"
		}
	}

	return model.Confirmation{
		PlanName:      planTitle(s.plan),
		Duration:      s.plan.Duration,
		Amount:        result.Amount,
		AmountDisplay: FormatAmount(result.Amount),
		BookingID:     result.BookingID,
		Email:         result.Email,
		Name:          name,
		PaymentMethod: result.Method,
		TxnID:         result.TransactionID,
	}
}

// planTitle names consultations "<name> <type> Consultation"; other plans keep their name.
func planTitle(plan model.PaymentPlan) string {
	if plan.Type == "" {
		return plan.Name
	}
	return plan.Name + " " + plan.Type + " Consultation"
}
