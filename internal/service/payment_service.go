package service

import (
	"context"

	"mediplus/internal/model"
	"mediplus/internal/payment"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentSessions is the subset of the payment manager the service needs.
type PaymentSessions interface {
	PaymentOpener
	Get(id uuid.UUID) (*payment.Session, error)
}

// paymentService implements PaymentService.
type paymentService struct {
	sessions PaymentSessions
	logger   zerolog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(sessions PaymentSessions, logger zerolog.Logger) PaymentService {
	return &paymentService{
		sessions: sessions,
		logger:   logger.With().Str("service", "payment").Logger(),
	}
}

func (s *paymentService) Open(ctx context.Context, plan model.PaymentPlan) (*model.Payment, error) {
	session, err := s.sessions.Open(plan, payment.Options{})
	if err != nil {
		s.logger.Debug().Err(err).Str("plan", plan.Name).Msg("payment rejected")
		return nil, err
	}
	view := session.View()
	return &view, nil
}

func (s *paymentService) Get(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return s.with(id, func(*payment.Session) error { return nil })
}

func (s *paymentService) SubmitDetails(ctx context.Context, id uuid.UUID, req model.PaymentDetailsRequest) (*model.Payment, error) {
	return s.with(id, func(session *payment.Session) error {
		return session.SubmitDetails(req.Email, req.Name)
	})
}

func (s *paymentService) ChooseMethod(ctx context.Context, id uuid.UUID, method model.PaymentMethod) (*model.Payment, error) {
	return s.with(id, func(session *payment.Session) error {
		return session.ChooseMethod(method)
	})
}

func (s *paymentService) SubmitCard(ctx context.Context, id uuid.UUID, req model.CardRequest) (*model.Payment, error) {
	return s.with(id, func(session *payment.Session) error {
		return session.SubmitCard(req.Number, req.Expiry, req.CVV)
	})
}

func (s *paymentService) SubmitOTP(ctx context.Context, id uuid.UUID, otp string) (*model.Payment, error) {
	return s.with(id, func(session *payment.Session) error {
		return session.SubmitOTP(ctx, otp)
	})
}

func (s *paymentService) ConfirmUPI(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return s.with(id, func(session *payment.Session) error {
		return session.ConfirmUPI(ctx)
	})
}

func (s *paymentService) Back(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return s.with(id, func(session *payment.Session) error {
		return session.Back()
	})
}

func (s *paymentService) Close(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return s.with(id, func(session *payment.Session) error {
		session.Close()
		return nil
	})
}

func (s *paymentService) QR(ctx context.Context, id uuid.UUID, size int) ([]byte, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = payment.DefaultQRSize
	}
	if size > 1024 {
		size = 1024
	}
	return session.QR(size)
}

// with runs fn on the session and returns its state afterwards.
func (s *paymentService) with(id uuid.UUID, fn func(*payment.Session) error) (*model.Payment, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	view := session.View()
	return &view, nil
}
