package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/lawlab/intake-agent/internal/domain"
)

// GoogleCalendar implements domain.CalendarClient on the Google
// Calendar v3 API with a service account.
type GoogleCalendar struct {
	svc        *gcal.Service
	calendarID string
}

// NewGoogleCalendar authenticates with the service-account JSON and
// binds the target calendar. Both are deployment configuration;
// anything wrong here is an operator-fixable defect, not an outage.
func NewGoogleCalendar(ctx context.Context, credentialsJSON, calendarID string) (*GoogleCalendar, error) {
	if credentialsJSON == "" {
		return nil, domain.Configuration("calendar.new", "google credentials json is not set", nil)
	}
	if calendarID == "" {
		return nil, domain.Configuration("calendar.new", "calendar id is not set", nil)
	}
	if !json.Valid([]byte(credentialsJSON)) {
		return nil, domain.Configuration("calendar.new", "google credentials json is not valid json", nil)
	}

	svc, err := gcal.NewService(ctx,
		option.WithCredentialsJSON([]byte(credentialsJSON)),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, domain.Configuration("calendar.new", "creating calendar service", err)
	}

	return &GoogleCalendar{svc: svc, calendarID: calendarID}, nil
}

// Insert creates the event and returns the id minted by Google.
// Attendees are notified (sendUpdates=all) and the default reminders
// are replaced with the firm's fixed policy: email a day before,
// popup 30 minutes before.
func (g *GoogleCalendar) Insert(ctx context.Context, ev domain.CalendarEvent) (string, error) {
	event := &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start: &gcal.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: ev.Timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
			TimeZone: ev.Timezone,
		},
		Attendees: []*gcal.EventAttendee{
			{Email: ev.AttendeeEmail},
		},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 30},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	created, err := g.svc.Events.Insert(g.calendarID, event).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return "", domain.Upstream("calendar.insert", "google calendar rejected the event", err)
		}
		return "", domain.Upstream("calendar.insert", "calling google calendar", err)
	}

	return created.Id, nil
}
