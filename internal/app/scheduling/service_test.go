package scheduling_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawlab/intake-agent/internal/adapters/calendar"
	"github.com/lawlab/intake-agent/internal/app/scheduling"
	"github.com/lawlab/intake-agent/internal/domain"
)

func validIntake() domain.IntakeRequest {
	return domain.IntakeRequest{
		ClientName:         "María Pérez",
		ClientEmail:        "maria@example.com",
		ProblemDescription: "Consulta por contrato de arriendo",
		SuggestedDateTime:  time.Date(2026, 9, 14, 15, 0, 0, 0, time.UTC),
	}
}

func newTestService(t *testing.T, mock *calendar.MockCalendar) *scheduling.Service {
	t.Helper()
	svc, err := scheduling.NewService(mock, 5*time.Second)
	require.NoError(t, err)
	return svc
}

func TestInvalidEmailRejectedBeforeExternalCall(t *testing.T) {
	mock := calendar.NewMockCalendar()
	svc := newTestService(t, mock)

	req := validIntake()
	req.ClientEmail = "not-an-email"

	_, err := svc.Schedule(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Empty(t, mock.Events(), "validation failures must not reach the calendar")
}

func TestMissingFieldsRejected(t *testing.T) {
	mock := calendar.NewMockCalendar()
	svc := newTestService(t, mock)

	cases := map[string]func(*domain.IntakeRequest){
		"name":        func(r *domain.IntakeRequest) { r.ClientName = "  " },
		"email":       func(r *domain.IntakeRequest) { r.ClientEmail = "" },
		"description": func(r *domain.IntakeRequest) { r.ProblemDescription = "" },
		"datetime":    func(r *domain.IntakeRequest) { r.SuggestedDateTime = time.Time{} },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validIntake()
			mutate(&req)
			_, err := svc.Schedule(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
	assert.Empty(t, mock.Events())
}

func TestScheduleBooksFixedHourSlot(t *testing.T) {
	mock := calendar.NewMockCalendar()
	svc := newTestService(t, mock)

	out, err := svc.Schedule(context.Background(), validIntake())
	require.NoError(t, err)

	assert.Equal(t, "success", out.Status)
	assert.NotEmpty(t, out.AppointmentID)
	assert.Contains(t, out.Message, "maria@example.com")

	events := mock.Events()
	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, "Cita Legal - María Pérez", ev.Summary)
	assert.Equal(t, "Consulta por contrato de arriendo", ev.Description)
	assert.Equal(t, "maria@example.com", ev.AttendeeEmail)
	assert.Equal(t, scheduling.Timezone, ev.Timezone)
	assert.Equal(t, time.Hour, ev.End.Sub(ev.Start))
}

func TestEndTimeIsStartPlusOneHourAcrossOffsets(t *testing.T) {
	mock := calendar.NewMockCalendar()
	svc := newTestService(t, mock)

	offsets := []*time.Location{
		time.UTC,
		time.FixedZone("tokyo", 9*3600),
		time.FixedZone("nuku", -11*3600),
	}
	for _, loc := range offsets {
		req := validIntake()
		req.SuggestedDateTime = time.Date(2026, 9, 14, 15, 0, 0, 0, loc)
		_, err := svc.Schedule(context.Background(), req)
		require.NoError(t, err)
	}

	for _, ev := range mock.Events() {
		assert.Equal(t, time.Hour, ev.End.Sub(ev.Start))
	}
}

func TestStartInterpretedInReferenceTimezone(t *testing.T) {
	mock := calendar.NewMockCalendar()
	svc := newTestService(t, mock)

	req := validIntake()
	out, err := svc.Schedule(context.Background(), req)
	require.NoError(t, err)

	loc, err := time.LoadLocation(scheduling.Timezone)
	require.NoError(t, err)
	assert.Equal(t, loc.String(), out.ScheduledTime.Location().String())
	assert.True(t, out.ScheduledTime.Equal(req.SuggestedDateTime), "conversion must not shift the instant")
}

func TestCalendarFailureKinds(t *testing.T) {
	t.Run("upstream", func(t *testing.T) {
		mock := calendar.NewMockCalendar()
		mock.Err = domain.Upstream("calendar.insert", "backend error", nil)
		svc := newTestService(t, mock)

		_, err := svc.Schedule(context.Background(), validIntake())
		require.Error(t, err)
		assert.Equal(t, domain.KindUpstream, domain.KindOf(err))
	})

	t.Run("configuration", func(t *testing.T) {
		misc := calendar.NewMisconfigured(domain.Configuration("calendar.new", "calendar id is not set", nil))
		svc, err := scheduling.NewService(misc, 5*time.Second)
		require.NoError(t, err)

		_, err = svc.Schedule(context.Background(), validIntake())
		require.Error(t, err)
		assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
	})
}
