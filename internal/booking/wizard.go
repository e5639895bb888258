// Package booking holds the lab test booking wizard and its in-memory store.
package booking

import (
	"slices"
	"strings"
	"time"

	"mediplus/internal/model"
)

// Step is a stage of the lab booking wizard.
type Step int

const (
	StepDetails Step = iota + 1
	StepContact
	StepSchedule
	StepBooked
)

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepContact:
		return "contact"
	case StepSchedule:
		return "schedule"
	case StepBooked:
		return "booked"
	}
	return "unknown"
}

// Collection slots offered for home sample collection.
var timeSlots = []string{"morning", "afternoon", "evening"}

// Event is an input to the wizard.
type Event interface {
	event()
}

// Continue moves from the test details to the contact form.
type Continue struct{}

// Back returns to the previous step.
type Back struct{}

// SubmitContact carries the contact form.
type SubmitContact struct{ Contact model.LabContact }

// SubmitSchedule carries the preferred slot. It does not leave the schedule step.
type SubmitSchedule struct{ Schedule model.LabSchedule }

// Booked records the token the backend issued for the booking.
type Booked struct{ Token string }

func (Continue) event()       {}
func (Back) event()           {}
func (SubmitContact) event()  {}
func (SubmitSchedule) event() {}
func (Booked) event()         {}

// Wizard is the booking wizard state.
type Wizard struct {
	Step     Step
	Test     model.LabTest
	Contact  model.LabContact
	Schedule model.LabSchedule
	Token    string
}

// New returns a wizard at the details step for test.
func New(test model.LabTest) (Wizard, error) {
	test = model.LabTest{
		ID:    strings.TrimSpace(test.ID),
		Name:  strings.TrimSpace(test.Name),
		Venue: strings.TrimSpace(test.Venue),
	}
	if test.ID == "" {
		return Wizard{}, model.MissingFieldError("Lab test")
	}
	return Wizard{Step: StepDetails, Test: test}, nil
}

// Apply returns the wizard after ev. On error the input wizard is returned unchanged.
func Apply(w Wizard, ev Event) (Wizard, error) {
	if w.Step == StepBooked {
		return w, model.ErrBookingAlreadyDone
	}

	next := w
	switch e := ev.(type) {
	case Continue:
		if w.Step != StepDetails {
			return w, model.ErrInvalidTransition
		}
		next.Step = StepContact

	case Back:
		switch w.Step {
		case StepContact:
			next.Step = StepDetails
		case StepSchedule:
			next.Step = StepContact
		default:
			return w, model.ErrInvalidTransition
		}

	case SubmitContact:
		if w.Step != StepContact {
			return w, model.ErrInvalidTransition
		}
		c := model.LabContact{
			Name:    strings.TrimSpace(e.Contact.Name),
			Phone:   strings.TrimSpace(e.Contact.Phone),
			Email:   strings.TrimSpace(e.Contact.Email),
			Address: strings.TrimSpace(e.Contact.Address),
		}
		if err := validateContact(c); err != nil {
			return w, err
		}
		next.Contact = c
		next.Step = StepSchedule

	case SubmitSchedule:
		if w.Step != StepSchedule {
			return w, model.ErrInvalidTransition
		}
		sc := model.LabSchedule{
			Date:        strings.TrimSpace(e.Schedule.Date),
			Time:        strings.ToLower(strings.TrimSpace(e.Schedule.Time)),
			Instruction: strings.TrimSpace(e.Schedule.Instruction),
		}
		if err := validateSchedule(sc); err != nil {
			return w, err
		}
		next.Schedule = sc

	case Booked:
		if w.Step != StepSchedule {
			return w, model.ErrInvalidTransition
		}
		next.Token = e.Token
		next.Step = StepBooked

	default:
		return w, model.ErrInvalidTransition
	}

	return next, nil
}

// Request builds the backend payload for a wizard on the schedule step.
func (w Wizard) Request() model.LabBookingRequest {
	return model.LabBookingRequest{
		Name:        w.Contact.Name,
		Phone:       w.Contact.Phone,
		Email:       w.Contact.Email,
		Address:     w.Contact.Address,
		Date:        w.Schedule.Date,
		Time:        w.Schedule.Time,
		Instruction: w.Schedule.Instruction,
		LabTestID:   w.Test.ID,
		LabTestName: w.Test.Name,
		Venue:       w.Test.Venue,
	}
}

func validateContact(c model.LabContact) error {
	switch {
	case c.Name == "":
		return model.MissingFieldError("Name")
	case c.Phone == "":
		return model.MissingFieldError("Phone")
	case c.Email == "":
		return model.MissingFieldError("Email")
	}
	return nil
}

// ValidDate reports whether d is empty or a calendar date in YYYY-MM-DD form.
func ValidDate(d string) bool {
	if d == "" {
		return true
	}
	_, err := time.Parse(time.DateOnly, d)
	return err == nil
}

func validateSchedule(sc model.LabSchedule) error {
	if !ValidDate(sc.Date) {
		return model.ErrInvalidDate
	}
	if sc.Time != "" && !slices.Contains(timeSlots, sc.Time) {
		return model.ErrInvalidTimeSlot
	}
	return nil
}
