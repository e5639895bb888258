package booking

import (
	"slices"
	"strings"

	"mediplus/internal/model"
)

// consultationHours are the start hours offered for a consultation, 9 AM to 4 PM.
var consultationHours = []string{"9", "10", "11", "12", "1", "2", "3", "4"}

// NormalizeConsultation trims req and checks it can be sent to a doctor.
// Phone, email and the preferred slot are optional.
func NormalizeConsultation(req model.ConsultationRequest) (model.ConsultationRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.DoctorID = strings.TrimSpace(req.DoctorID)
	req.DoctorName = strings.TrimSpace(req.DoctorName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.Symptoms = strings.TrimSpace(req.Symptoms)
	req.PreferredDate = strings.TrimSpace(req.PreferredDate)
	req.PreferredTime = strings.TrimSpace(req.PreferredTime)

	switch {
	case req.DoctorID == "":
		return req, model.ErrDoctorRequired
	case req.Name == "":
		return req, model.MissingFieldError("Name")
	case req.Age <= 0:
		return req, model.ErrInvalidAge
	case req.Symptoms == "":
		return req, model.MissingFieldError("Symptoms")
	case !ValidDate(req.PreferredDate):
		return req, model.ErrInvalidDate
	case req.PreferredTime != "" && !slices.Contains(consultationHours, req.PreferredTime):
		return req, model.ErrInvalidTimeSlot
	}
	return req, nil
}
