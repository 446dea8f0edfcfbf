package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"worklog/internal/errors"
	"worklog/models"
)

func TestTaskToEvent_AllDay(t *testing.T) {
	due := time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC)
	task := models.Task{ID: uuid.New(), Title: "Standup", Description: "daily", DueDate: &due}

	event, err := TaskToEvent(task)
	require.NoError(t, err)
	assert.Equal(t, "Standup", event.Summary)
	assert.Equal(t, "2024-03-21", event.Start.Date)
	assert.Equal(t, "2024-03-22", event.End.Date)
	assert.Empty(t, event.Start.DateTime)
	assert.Equal(t, task.ID.String(), event.ExtendedProperties.Private[taskIDProperty])
}

func TestTaskToEvent_Timed(t *testing.T) {
	due := time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC)
	event, err := TaskToEvent(models.Task{Title: "Call", DueDate: &due, Time: "14:30"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-21T14:30:00Z", event.Start.DateTime)
	assert.Equal(t, "2024-03-21T15:30:00Z", event.End.DateTime)
}

func TestTaskToEvent_Invalid(t *testing.T) {
	_, err := TaskToEvent(models.Task{Title: "x"})
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))

	due := time.Now()
	_, err = TaskToEvent(models.Task{Title: "x", DueDate: &due, Time: "late"})
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
}

func TestEventFromGoogle(t *testing.T) {
	timed := EventFromGoogle(&gcal.Event{
		Id:      "e1",
		Summary: "Review",
		Start:   &gcal.EventDateTime{DateTime: "2024-03-21T09:00:00Z"},
		End:     &gcal.EventDateTime{DateTime: "2024-03-21T10:00:00Z"},
	})
	assert.False(t, timed.AllDay)
	assert.Equal(t, 9, timed.Start.Hour())

	allDay := EventFromGoogle(&gcal.Event{Id: "e2", Start: &gcal.EventDateTime{Date: "2024-03-22"}})
	assert.True(t, allDay.AllDay)
	assert.Equal(t, 22, allDay.Start.Day())
	assert.True(t, allDay.End.IsZero())
}

func TestMapError(t *testing.T) {
	forbidden := mapError(&googleapi.Error{Code: http.StatusForbidden})
	assert.Equal(t, errors.CodeForbidden, errors.GetCode(forbidden))

	expired := mapError(&googleapi.Error{Code: http.StatusUnauthorized})
	assert.Equal(t, errors.CodeUnauthorized, errors.GetCode(expired))

	other := mapError(&googleapi.Error{Code: http.StatusInternalServerError})
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(other))

	assert.True(t, isGone(&googleapi.Error{Code: http.StatusGone}))
	assert.False(t, isGone(&googleapi.Error{Code: http.StatusBadRequest}))
}

func TestGoogleCalendar_CreateEventAgainstFakeServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		assert.Equal(t, http.MethodPost, r.Method)

		var event gcal.Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		event.Id = "created-1"
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(event)
	}))
	defer server.Close()

	cal := NewGoogleCalendar("primary", option.WithEndpoint(server.URL+"/"))
	due := time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC)

	id, err := cal.CreateEvent(context.Background(), "user-token", models.Task{ID: uuid.New(), Title: "t", DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, "created-1", id)
}
