package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/lawlab/intake-agent/internal/domain"
	"github.com/lawlab/intake-agent/internal/observability"
)

// Timezone is the fixed reference timezone every booking is
// interpreted in, whatever offset the caller supplied.
const Timezone = "America/Santiago"

// Service translates a validated intake form into exactly one
// calendar booking. It is stateless: one request in, one confirmation
// out. Retrying a request after a transient failure may create a
// duplicate booking; deduplication is a known non-goal.
type Service struct {
	cal     domain.CalendarClient
	loc     *time.Location
	timeout time.Duration
}

func NewService(cal domain.CalendarClient, timeout time.Duration) (*Service, error) {
	loc, err := time.LoadLocation(Timezone)
	if err != nil {
		return nil, domain.Configuration("scheduling.new", "loading reference timezone", err)
	}
	return &Service{cal: cal, loc: loc, timeout: timeout}, nil
}

// Schedule validates the request, books a fixed one-hour slot and
// returns the confirmation carrying the calendar service's event id.
// Validation failures short-circuit before any external call.
func (s *Service) Schedule(ctx context.Context, req domain.IntakeRequest) (*domain.BookingConfirmation, error) {
	log := observability.LoggerFromContext(ctx)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := req.SuggestedDateTime.In(s.loc)
	end := start.Add(domain.AppointmentDuration)

	ev := domain.CalendarEvent{
		Summary:       "Cita Legal - " + req.ClientName,
		Description:   req.ProblemDescription,
		Start:         start,
		End:           end,
		AttendeeEmail: req.ClientEmail,
		Timezone:      Timezone,
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	eventID, err := s.cal.Insert(callCtx, ev)
	if err != nil {
		log.Error("calendar insert failed", "error", err, "client_email", req.ClientEmail)
		return nil, err
	}

	log.Info("appointment booked", "event_id", eventID, "client_email", req.ClientEmail, "start", start)

	return &domain.BookingConfirmation{
		Status:        "success",
		AppointmentID: eventID,
		Message:       fmt.Sprintf("Agendamiento completado para %s.", req.ClientEmail),
		ScheduledTime: start,
	}, nil
}
