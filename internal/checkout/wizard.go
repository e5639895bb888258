package checkout

import (
	"strings"

	"mediplus/internal/model"
)

// Step is a stage of the checkout wizard.
type Step int

const (
	StepDelivery Step = iota + 1
	StepPayment
	StepReview
	StepPlaced
)

func (s Step) String() string {
	switch s {
	case StepDelivery:
		return "delivery"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	case StepPlaced:
		return "placed"
	}
	return "unknown"
}

// Event is an input to the wizard.
type Event interface {
	event()
}

// SubmitDelivery carries the delivery form.
type SubmitDelivery struct{ Info model.DeliveryInfo }

// SelectMethod picks a payment method.
type SelectMethod struct{ Method model.PaymentMethod }

// Next moves from payment selection to review.
type Next struct{}

// Back returns to the previous step.
type Back struct{}

// Placed records the order id returned by the order system.
type Placed struct{ OrderID string }

func (SubmitDelivery) event() {}
func (SelectMethod) event()   {}
func (Next) event()           {}
func (Back) event()           {}
func (Placed) event()         {}

// Wizard is the checkout wizard state. The zero value is not valid; use New.
type Wizard struct {
	Step     Step
	Delivery model.DeliveryInfo
	Method   model.PaymentMethod
	OrderID  string
}

// New returns a wizard at the delivery step.
func New() Wizard {
	return Wizard{Step: StepDelivery}
}

// Apply returns the wizard after ev. On error the input wizard is returned unchanged.
func Apply(w Wizard, ev Event) (Wizard, error) {
	if w.Step == StepPlaced {
		return w, model.ErrCheckoutAlreadyDone
	}

	next := w
	switch e := ev.(type) {
	case SubmitDelivery:
		if w.Step != StepDelivery {
			return w, model.ErrInvalidTransition
		}
		info := trimDelivery(e.Info)
		if err := validateDelivery(info); err != nil {
			return w, err
		}
		next.Delivery = info
		next.Step = StepPayment

	case SelectMethod:
		if w.Step != StepPayment {
			return w, model.ErrInvalidTransition
		}
		if !e.Method.Valid() {
			return w, model.ErrPaymentMethod
		}
		next.Method = e.Method

	case Next:
		if w.Step != StepPayment {
			return w, model.ErrInvalidTransition
		}
		if !w.Method.Valid() {
			return w, model.ErrPaymentMethod
		}
		next.Step = StepReview

	case Back:
		switch w.Step {
		case StepPayment:
			next.Step = StepDelivery
		case StepReview:
			next.Step = StepPayment
		default:
			return w, model.ErrInvalidTransition
		}

	case Placed:
		if w.Step != StepReview || e.OrderID == "" {
			return w, model.ErrInvalidTransition
		}
		next.OrderID = e.OrderID
		next.Step = StepPlaced

	default:
		return w, model.ErrInvalidTransition
	}

	return next, nil
}

func trimDelivery(info model.DeliveryInfo) model.DeliveryInfo {
	return model.DeliveryInfo{
		FullName: strings.TrimSpace(info.FullName),
		Email:    strings.TrimSpace(info.Email),
		Phone:    strings.TrimSpace(info.Phone),
		Address:  strings.TrimSpace(info.Address),
		City:     strings.TrimSpace(info.City),
		State:    strings.TrimSpace(info.State),
		ZipCode:  strings.TrimSpace(info.ZipCode),
		Landmark: strings.TrimSpace(info.Landmark),
	}
}

// validateDelivery reports the first required field left blank.
func validateDelivery(info model.DeliveryInfo) error {
	required := []struct {
		name  string
		value string
	}{
		{"Full name", info.FullName},
		{"Email", info.Email},
		{"Phone", info.Phone},
		{"Address", info.Address},
		{"City", info.City},
		{"State", info.State},
		{"ZIP code", info.ZipCode},
	}

	for _, field := range required {
		if field.value == "" {
			return model.MissingFieldError(field.name)
		}
	}
	return nil
}
