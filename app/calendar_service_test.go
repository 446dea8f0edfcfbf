package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worklog/internal/errors"
	"worklog/internal/testkit"
	"worklog/models"
	"worklog/ports"
)

func TestMonthBounds(t *testing.T) {
	from, to := MonthBounds(time.Date(2024, 2, 14, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), to)
}

func TestCalendarService_MonthEvents(t *testing.T) {
	cal := &fakeCalendar{events: []ports.CalendarEvent{{ID: "e1", Summary: "Standup"}}}
	svc := NewCalendarService(cal, clock(fixedNow))

	events, err := svc.MonthEvents(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	_, err = svc.MonthEvents(context.Background(), bob)
	assert.Equal(t, errors.CodeUnauthorized, errors.GetCode(err))
}

func TestCalendarService_MonthEventsErrors(t *testing.T) {
	cal := &fakeCalendar{failWith: errors.Forbidden("insufficientPermissions")}
	svc := NewCalendarService(cal, clock(fixedNow))

	_, err := svc.MonthEvents(context.Background(), alice)
	assert.Equal(t, errors.CodeForbidden, errors.GetCode(err))
	assert.Equal(t, "Insufficient Google Calendar permissions", errors.PublicMessage(err))

	cal.failWith = errors.ExternalServiceError("calendar", assert.AnError)
	_, err = svc.MonthEvents(context.Background(), alice)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
	assert.Equal(t, "Error fetching events", errors.PublicMessage(err))
}

func TestCalendarService_Status(t *testing.T) {
	cal := &fakeCalendar{}
	svc := NewCalendarService(cal, clock(fixedNow))

	assert.Equal(t, CalendarStatus{IsConnected: true, Message: "Connected to Google Calendar."}, svc.Status(context.Background(), alice))
	assert.False(t, svc.Status(context.Background(), bob).IsConnected)

	cal.failWith = assert.AnError
	status := svc.Status(context.Background(), alice)
	assert.False(t, status.IsConnected)
	assert.Equal(t, "Google authentication expired. Please reconnect.", status.Message)
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	kit := testkit.NewTestKit()
	svc := NewUserService(kit.Users(), NewCooldownGate(10, clock(fixedNow)))

	_, err := svc.Ensure(ctx, models.Identity{})
	assert.Equal(t, errors.CodeUnauthorized, errors.GetCode(err))

	user, err := svc.Ensure(ctx, models.Identity{UserID: "u1", DisplayName: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Empty(t, user.Name)

	profile, err := svc.Profile(ctx, models.Identity{UserID: "u1", DisplayName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.User.Name)
	assert.True(t, profile.Cooldown.Eligible)

	_, err = svc.SetName(ctx, "u1", "   ")
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))

	named, err := svc.SetName(ctx, "u1", "Ada Lovelace")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", named.Name)

	_, err = svc.SetName(ctx, "u1", "Someone Else")
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))

	_, err = svc.SetName(ctx, "ghost", "x")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}
