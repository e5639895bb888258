package service

import (
	"context"
	"fmt"

	"mediplus/internal/booking"
	"mediplus/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// bookingService implements BookingService.
type bookingService struct {
	store   booking.Store
	backend BookingBackend
	logger  zerolog.Logger
}

// NewBookingService creates a new booking service.
func NewBookingService(store booking.Store, backend BookingBackend, logger zerolog.Logger) BookingService {
	return &bookingService{
		store:   store,
		backend: backend,
		logger:  logger.With().Str("service", "booking").Logger(),
	}
}

func (s *bookingService) StartLabBooking(ctx context.Context, test model.LabTest) (*model.LabBooking, error) {
	w, err := booking.New(test)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.Create(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("failed to start lab booking: %w", err)
	}

	s.logger.Info().
		Str("booking_id", rec.ID.String()).
		Str("labtest_id", w.Test.ID).
		Msg("lab booking started")

	view := rec.View()
	return &view, nil
}

func (s *bookingService) GetLabBooking(ctx context.Context, id uuid.UUID) (*model.LabBooking, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := rec.View()
	return &view, nil
}

func (s *bookingService) Continue(ctx context.Context, id uuid.UUID) (*model.LabBooking, error) {
	return s.advance(ctx, id, booking.Continue{})
}

func (s *bookingService) Back(ctx context.Context, id uuid.UUID) (*model.LabBooking, error) {
	return s.advance(ctx, id, booking.Back{})
}

func (s *bookingService) SubmitContact(ctx context.Context, id uuid.UUID, contact model.LabContact) (*model.LabBooking, error) {
	return s.advance(ctx, id, booking.SubmitContact{Contact: contact})
}

func (s *bookingService) advance(ctx context.Context, id uuid.UUID, ev booking.Event) (*model.LabBooking, error) {
	rec, err := s.store.Update(ctx, id, func(r *booking.Record) error {
		if r.Submitting {
			return model.ErrBookingInProgress
		}
		w, err := booking.Apply(r.Wizard, ev)
		if err != nil {
			return err
		}
		r.Wizard = w
		r.LastError = ""
		return nil
	})
	if err != nil {
		s.logger.Debug().
			Err(err).
			Str("booking_id", id.String()).
			Str("event", fmt.Sprintf("%T", ev)).
			Msg("booking event rejected")
		return nil, err
	}

	view := rec.View()
	return &view, nil
}

func (s *bookingService) Confirm(ctx context.Context, id uuid.UUID, schedule model.LabSchedule) (*model.LabBooking, error) {
	rec, err := s.store.Update(ctx, id, func(r *booking.Record) error {
		if r.Submitting {
			return model.ErrBookingInProgress
		}
		w, err := booking.Apply(r.Wizard, booking.SubmitSchedule{Schedule: schedule})
		if err != nil {
			return err
		}
		r.Wizard = w
		r.Submitting = true
		r.LastError = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.backend.BookLabTest(ctx, rec.Wizard.Request())
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("booking_id", id.String()).
			Msg("lab booking failed")

		_, _ = s.store.Update(ctx, id, func(r *booking.Record) error {
			r.Submitting = false
			r.LastError = errorMessage(err, "Booking failed. Please try again.")
			return nil
		})
		return nil, err
	}

	booked, err := s.store.Update(ctx, id, func(r *booking.Record) error {
		w, err := booking.Apply(r.Wizard, booking.Booked{Token: token})
		if err != nil {
			return err
		}
		r.Wizard = w
		r.Submitting = false
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to mark booking confirmed: %w", err)
	}

	s.logger.Info().
		Str("booking_id", id.String()).
		Str("labtest_id", booked.Wizard.Test.ID).
		Msg("lab booking confirmed")

	view := booked.View()
	return &view, nil
}

func (s *bookingService) BookConsultation(ctx context.Context, req model.ConsultationRequest) (*model.Consultation, error) {
	req, err := booking.NormalizeConsultation(req)
	if err != nil {
		return nil, err
	}

	token, err := s.backend.BookConsultation(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Str("doctor_id", req.DoctorID).Msg("consultation booking failed")
		return nil, err
	}

	return &model.Consultation{
		DoctorID:      req.DoctorID,
		DoctorName:    req.DoctorName,
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
		Token:         token,
	}, nil
}
