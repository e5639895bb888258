package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"mediplus/internal/checkout"
	"mediplus/internal/model"
	"mediplus/internal/payment"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderPlanName labels checkout payments in confirmation summaries.
const orderPlanName = "MediPlus Order"

var errPaymentAbandoned = model.NewDomainError(model.ErrCodeInvalidTransition, "Checkout is no longer waiting for this payment")

// PaymentOpener opens payment sessions and closes the ones a checkout walks away from.
type PaymentOpener interface {
	Open(plan model.PaymentPlan, opts payment.Options) (*payment.Session, error)
	Abandon(id uuid.UUID)
}

// checkoutService implements CheckoutService.
type checkoutService struct {
	store    checkout.Store
	carts    CartService
	payments PaymentOpener
	backend  OrderBackend
	receipts ReceiptService
	logger   zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	store checkout.Store,
	carts CartService,
	payments PaymentOpener,
	backend OrderBackend,
	receipts ReceiptService,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		store:    store,
		carts:    carts,
		payments: payments,
		backend:  backend,
		receipts: receipts,
		logger:   logger.With().Str("service", "checkout").Logger(),
	}
}

func (s *checkoutService) Start(ctx context.Context, cartID uuid.UUID) (*model.Checkout, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Cart.Items) == 0 {
		return nil, model.ErrCartEmpty
	}

	rec, err := s.store.Create(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to start checkout: %w", err)
	}

	s.logger.Info().
		Str("checkout_id", rec.ID.String()).
		Str("cart_id", cartID.String()).
		Msg("checkout started")

	view := rec.View(&cart.Summary)
	return &view, nil
}

func (s *checkoutService) Get(ctx context.Context, id uuid.UUID) (*model.Checkout, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, rec), nil
}

func (s *checkoutService) SubmitDelivery(ctx context.Context, id uuid.UUID, info model.DeliveryInfo) (*model.Checkout, error) {
	return s.advance(ctx, id, checkout.SubmitDelivery{Info: info})
}

func (s *checkoutService) SelectMethod(ctx context.Context, id uuid.UUID, method model.PaymentMethod) (*model.Checkout, error) {
	return s.advance(ctx, id, checkout.SelectMethod{Method: method})
}

func (s *checkoutService) Next(ctx context.Context, id uuid.UUID) (*model.Checkout, error) {
	return s.advance(ctx, id, checkout.Next{})
}

// Back also abandons a payment the checkout is waiting on.
func (s *checkoutService) Back(ctx context.Context, id uuid.UUID) (*model.Checkout, error) {
	return s.advance(ctx, id, checkout.Back{})
}

func (s *checkoutService) advance(ctx context.Context, id uuid.UUID, ev checkout.Event) (*model.Checkout, error) {
	var abandoned *uuid.UUID
	rec, err := s.store.Update(ctx, id, func(r *checkout.Record) error {
		if r.Submitting {
			return model.ErrPaymentInProgress
		}
		if _, back := ev.(checkout.Back); r.AwaitingPayment && !back {
			return model.ErrPaymentInProgress
		}

		w, err := checkout.Apply(r.Wizard, ev)
		if err != nil {
			return err
		}
		r.Wizard = w
		abandoned = r.PaymentSessionID
		r.AwaitingPayment = false
		r.PaymentSessionID = nil
		r.LastError = ""
		return nil
	})
	if err != nil {
		s.logger.Debug().
			Err(err).
			Str("checkout_id", id.String()).
			Str("event", fmt.Sprintf("%T", ev)).
			Msg("checkout event rejected")
		return nil, err
	}

	if abandoned != nil {
		s.payments.Abandon(*abandoned)
		s.logger.Info().
			Str("checkout_id", id.String()).
			Str("payment_id", abandoned.String()).
			Msg("payment abandoned")
	}

	return s.view(ctx, rec), nil
}

// attachment holds an uploaded prescription so it can be sent after the request ends.
type attachment struct {
	filename string
	data     []byte
}

func bufferUpload(upload *model.Upload) (*attachment, error) {
	if upload == nil || upload.Content == nil {
		return nil, nil
	}
	data, err := io.ReadAll(upload.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to read prescription: %w", err)
	}
	return &attachment{filename: upload.Filename, data: data}, nil
}

func (a *attachment) upload() *model.Upload {
	if a == nil {
		return nil
	}
	return &model.Upload{Filename: a.filename, Content: bytes.NewReader(a.data)}
}

func (s *checkoutService) Place(ctx context.Context, id uuid.UUID, token string, prescription *model.Upload) (*model.Checkout, error) {
	if token == "" {
		return nil, model.ErrAuthRequired
	}

	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case rec.Wizard.Step == checkout.StepPlaced:
		return nil, model.ErrCheckoutAlreadyDone
	case rec.Wizard.Step != checkout.StepReview:
		return nil, model.ErrInvalidTransition
	case rec.Submitting:
		return nil, model.ErrPaymentInProgress
	case rec.AwaitingPayment:
		// the open session is still usable
		return s.view(ctx, rec), nil
	}

	cart, err := s.carts.Get(ctx, rec.CartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Cart.Items) == 0 {
		return nil, model.ErrCartEmpty
	}

	file, err := bufferUpload(prescription)
	if err != nil {
		return nil, err
	}

	sub := model.OrderSubmission{
		Delivery:      rec.Wizard.Delivery,
		Items:         cart.Cart.Items,
		PaymentMethod: rec.Wizard.Method,
		PaymentStatus: model.PaymentStatusPending,
		Summary:       cart.Summary,
	}
	if cart.Cart.AppliedCoupon != nil {
		sub.CouponCode = cart.Cart.AppliedCoupon.Code
	}

	if !sub.PaymentMethod.Immediate() {
		rec, err = s.store.Update(ctx, id, func(r *checkout.Record) error {
			if r.Submitting || r.AwaitingPayment || r.Wizard.Step != checkout.StepReview {
				return model.ErrPaymentInProgress
			}
			r.Submitting = true
			return nil
		})
		if err != nil {
			return nil, err
		}
		return s.submit(ctx, rec, token, sub, file)
	}

	return s.awaitPayment(ctx, id, token, sub, file)
}

// awaitPayment opens a session for the order total. The order is submitted
// from the session's success callback.
func (s *checkoutService) awaitPayment(ctx context.Context, id uuid.UUID, token string, sub model.OrderSubmission, file *attachment) (*model.Checkout, error) {
	var session *payment.Session

	rec, err := s.store.Update(ctx, id, func(r *checkout.Record) error {
		if r.Submitting || r.AwaitingPayment || r.Wizard.Step != checkout.StepReview {
			return model.ErrPaymentInProgress
		}

		plan := model.PaymentPlan{Name: orderPlanName, Price: sub.Summary.Total}
		opened, err := s.payments.Open(plan, payment.Options{
			Method: sub.PaymentMethod,
			OnSuccess: func(ctx context.Context, result payment.Result) error {
				return s.paid(ctx, id, token, sub, file, result)
			},
		})
		if err != nil {
			return err
		}

		sessionID := opened.ID()
		session = opened
		r.AwaitingPayment = true
		r.PaymentSessionID = &sessionID
		r.LastError = ""
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("checkout_id", id.String()).Msg("failed to open payment")
		return nil, err
	}

	// the payer can still change these on the details step
	_ = session.SubmitDetails(sub.Delivery.Email, sub.Delivery.FullName)

	s.logger.Info().
		Str("checkout_id", id.String()).
		Str("payment_id", session.ID().String()).
		Str("payment_method", string(sub.PaymentMethod)).
		Float64("total", sub.Summary.Total).
		Msg("awaiting payment")

	return s.view(ctx, rec), nil
}

func (s *checkoutService) paid(ctx context.Context, id uuid.UUID, token string, sub model.OrderSubmission, file *attachment, result payment.Result) error {
	rec, err := s.store.Update(ctx, id, func(r *checkout.Record) error {
		if !r.AwaitingPayment || r.PaymentSessionID == nil || *r.PaymentSessionID != result.PaymentID {
			return errPaymentAbandoned
		}
		r.AwaitingPayment = false
		r.Submitting = true
		return nil
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("checkout_id", id.String()).
			Str("transaction_id", result.TransactionID).
			Msg("payment completed for an abandoned checkout")
		return err
	}

	sub.PaymentStatus = model.PaymentStatusPaid
	_, err = s.submit(ctx, rec, token, sub, file)
	return err
}

// submit sends the order and, on success, places the checkout.
func (s *checkoutService) submit(ctx context.Context, rec checkout.Record, token string, sub model.OrderSubmission, file *attachment) (*model.Checkout, error) {
	sub.Prescription = file.upload()

	orderID, err := s.backend.CreateOrder(ctx, token, sub)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("checkout_id", rec.ID.String()).
			Str("payment_status", string(sub.PaymentStatus)).
			Msg("order submission failed")

		_, _ = s.store.Update(ctx, rec.ID, func(r *checkout.Record) error {
			r.Submitting = false
			r.LastError = errorMessage(err, "Order failed. Please try again.")
			return nil
		})
		return nil, err
	}

	if _, err := s.carts.Clear(ctx, rec.CartID); err != nil {
		s.logger.Warn().Err(err).Str("cart_id", rec.CartID.String()).Msg("failed to clear cart after order")
	}

	var receiptID *uuid.UUID
	receipt, err := s.receipts.Record(ctx, rec.ID, orderID, sub)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID).Msg("order placed but receipt not recorded")
	} else {
		receiptID = &receipt.ID
	}

	placed, err := s.store.Update(ctx, rec.ID, func(r *checkout.Record) error {
		w, err := checkout.Apply(r.Wizard, checkout.Placed{OrderID: orderID})
		if err != nil {
			return err
		}
		r.Wizard = w
		r.Submitting = false
		r.AwaitingPayment = false
		r.ReceiptID = receiptID
		r.LastError = ""
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to mark checkout placed: %w", err)
	}

	s.logger.Info().
		Str("checkout_id", rec.ID.String()).
		Str("order_id", orderID).
		Str("payment_method", string(sub.PaymentMethod)).
		Str("payment_status", string(sub.PaymentStatus)).
		Float64("total", sub.Summary.Total).
		Msg("order placed")

	return s.view(ctx, placed), nil
}

// view attaches the live cart summary until the order is placed.
func (s *checkoutService) view(ctx context.Context, rec checkout.Record) *model.Checkout {
	var summary *model.PriceSummary
	if rec.Wizard.Step != checkout.StepPlaced {
		if cart, err := s.carts.Get(ctx, rec.CartID); err == nil {
			summary = &cart.Summary
		}
	}
	view := rec.View(summary)
	return &view
}

// errorMessage picks the text shown for a failed submission. Transport
// failures and internal errors fall back to fallback.
func errorMessage(err error, fallback string) string {
	if de, ok := model.AsDomainError(err); ok {
		return de.Message
	}
	var be *model.BackendError
	if errors.As(err, &be) && be.Status != 0 {
		return be.Message
	}
	return fallback
}
