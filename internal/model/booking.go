package model

import (
	"time"

	"github.com/google/uuid"
)

// LabTest is the test a lab booking is for.
type LabTest struct {
	ID    string `json:"labtestId"`
	Name  string `json:"labtestName"`
	Venue string `json:"venue,omitempty"`
}

// LabContact is who the sample is collected from.
type LabContact struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address,omitempty"`
}

// LabSchedule is the preferred collection slot. Every field is optional.
type LabSchedule struct {
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	Instruction string `json:"instruction,omitempty"`
}

// LabBooking is the externally visible state of a lab test booking.
type LabBooking struct {
	ID         uuid.UUID   `json:"id"`
	Step       string      `json:"step"`
	StepNumber int         `json:"stepNumber"`
	Test       LabTest     `json:"test"`
	Contact    LabContact  `json:"contact"`
	Schedule   LabSchedule `json:"schedule"`
	Submitting bool        `json:"submitting,omitempty"`
	Token      string      `json:"token,omitempty"`
	LastError  string      `json:"lastError,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// StartLabBookingRequest opens a booking for one lab test.
type StartLabBookingRequest struct {
	Test LabTest `json:"test"`
}

// LabBookingRequest is the body the backend's lab-booking endpoint accepts.
type LabBookingRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Instruction string `json:"instruction"`
	LabTestID   string `json:"labtest_id"`
	LabTestName string `json:"labtest_name"`
	Venue       string `json:"venue"`
}

// ConsultationRequest books a doctor consultation. It is also the body sent
// to the backend's consulting endpoint.
type ConsultationRequest struct {
	Name          string `json:"name"`
	Age           int    `json:"age"`
	DoctorID      string `json:"doctor_id"`
	DoctorName    string `json:"doctor_name"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Symptoms      string `json:"symptoms"`
	PreferredDate string `json:"preferred_date,omitempty"`
	PreferredTime string `json:"preferred_time,omitempty"`
}

// Consultation is a booked consultation.
type Consultation struct {
	DoctorID      string `json:"doctorId"`
	DoctorName    string `json:"doctorName"`
	PreferredDate string `json:"preferredDate,omitempty"`
	PreferredTime string `json:"preferredTime,omitempty"`
	Token         string `json:"token,omitempty"`
}
