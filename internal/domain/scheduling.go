package domain

import (
	"net/mail"
	"strings"
	"time"
)

// AppointmentDuration is the fixed length of every booking. There are
// no variable-length appointments.
const AppointmentDuration = time.Hour

// IntakeRequest is one validated intake submission. It is constructed
// per request, consumed by the booking call and then discarded.
type IntakeRequest struct {
	ClientName         string
	ClientEmail        string
	ProblemDescription string
	SuggestedDateTime  time.Time
}

// Validate checks field presence and email syntax. It runs before any
// external call is attempted.
func (r IntakeRequest) Validate() error {
	if strings.TrimSpace(r.ClientName) == "" {
		return Validation("intake", "client_name is required")
	}
	if strings.TrimSpace(r.ClientEmail) == "" {
		return Validation("intake", "client_email is required")
	}
	if _, err := mail.ParseAddress(r.ClientEmail); err != nil {
		return Validation("intake", "client_email is not a valid email address")
	}
	if strings.TrimSpace(r.ProblemDescription) == "" {
		return Validation("intake", "problem_description is required")
	}
	if r.SuggestedDateTime.IsZero() {
		return Validation("intake", "suggested_datetime is required")
	}
	return nil
}

// BookingConfirmation is the outcome of a scheduling call.
// AppointmentID is the opaque identifier minted by the calendar
// service.
type BookingConfirmation struct {
	Status        string
	AppointmentID string
	Message       string
	ScheduledTime time.Time
}
