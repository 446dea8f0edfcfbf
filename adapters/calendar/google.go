package calendar

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"worklog/internal/errors"
	"worklog/models"
	"worklog/ports"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const (
	dateLayout      = "2006-01-02"
	taskIDProperty  = "worklog_task_id"
	timedEventSpan  = time.Hour
	eventsPageLimit = 250
)

// GoogleCalendar implements ports.Calendar on Google Calendar v3. Each call
// is authorized with the caller's own access token.
type GoogleCalendar struct {
	calendarID string
	opts       []option.ClientOption
}

// NewGoogleCalendar creates a client for calendarID ("primary" when empty).
// Extra options are appended to every service, e.g. a test endpoint.
func NewGoogleCalendar(calendarID string, opts ...option.ClientOption) *GoogleCalendar {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleCalendar{calendarID: calendarID, opts: opts}
}

func (g *GoogleCalendar) clientOptions(token string) []option.ClientOption {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return append([]option.ClientOption{option.WithTokenSource(ts)}, g.opts...)
}

func (g *GoogleCalendar) service(ctx context.Context, token string) (*gcal.Service, error) {
	srv, err := gcal.NewService(ctx, g.clientOptions(token)...)
	if err != nil {
		return nil, errors.ExternalServiceError("calendar", err)
	}
	return srv, nil
}

// CreateEvent inserts an event mirroring the task and returns its id
func (g *GoogleCalendar) CreateEvent(ctx context.Context, token string, task models.Task) (string, error) {
	event, err := TaskToEvent(task)
	if err != nil {
		return "", err
	}
	srv, err := g.service(ctx, token)
	if err != nil {
		return "", err
	}
	created, err := srv.Events.Insert(g.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", mapError(err)
	}
	return created.Id, nil
}

// UpdateEvent patches the event so it matches the task again
func (g *GoogleCalendar) UpdateEvent(ctx context.Context, token, eventID string, task models.Task) error {
	event, err := TaskToEvent(task)
	if err != nil {
		return err
	}
	srv, err := g.service(ctx, token)
	if err != nil {
		return err
	}
	if _, err := srv.Events.Patch(g.calendarID, eventID, event).Context(ctx).Do(); err != nil {
		return mapError(err)
	}
	return nil
}

// DeleteEvent removes the event; an already deleted event is not an error
func (g *GoogleCalendar) DeleteEvent(ctx context.Context, token, eventID string) error {
	srv, err := g.service(ctx, token)
	if err != nil {
		return err
	}
	err = srv.Events.Delete(g.calendarID, eventID).Context(ctx).Do()
	if err != nil && !isGone(err) {
		return mapError(err)
	}
	return nil
}

// ListEvents returns single events overlapping [from, to], ordered by start
func (g *GoogleCalendar) ListEvents(ctx context.Context, token string, from, to time.Time) ([]ports.CalendarEvent, error) {
	srv, err := g.service(ctx, token)
	if err != nil {
		return nil, err
	}

	var out []ports.CalendarEvent
	err = srv.Events.List(g.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(eventsPageLimit).
		Pages(ctx, func(page *gcal.Events) error {
			for _, item := range page.Items {
				out = append(out, EventFromGoogle(item))
			}
			return nil
		})
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// Status makes a lightweight userinfo call to check the token
func (g *GoogleCalendar) Status(ctx context.Context, token string) error {
	srv, err := oauth2api.NewService(ctx, g.clientOptions(token)...)
	if err != nil {
		return errors.ExternalServiceError("calendar", err)
	}
	if _, err := srv.Userinfo.Get().Context(ctx).Do(); err != nil {
		return mapError(err)
	}
	return nil
}

// TaskToEvent converts a task with a due date into an event: all-day on the
// due date, or a one-hour slot when a time of day is set.
func TaskToEvent(task models.Task) (*gcal.Event, error) {
	if task.DueDate == nil {
		return nil, errors.ValidationError("Task has no due date")
	}
	due := task.DueDate.UTC()

	event := &gcal.Event{
		Summary:     task.Title,
		Description: task.Description,
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{taskIDProperty: task.ID.String()},
		},
	}

	if task.Time == "" {
		day := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
		event.Start = &gcal.EventDateTime{Date: day.Format(dateLayout)}
		event.End = &gcal.EventDateTime{Date: day.AddDate(0, 0, 1).Format(dateLayout)}
		return event, nil
	}

	clock, err := time.Parse("15:04", task.Time)
	if err != nil {
		return nil, errors.ValidationError("Time must be HH:MM")
	}
	start := time.Date(due.Year(), due.Month(), due.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
	event.Start = &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)}
	event.End = &gcal.EventDateTime{DateTime: start.Add(timedEventSpan).Format(time.RFC3339)}
	return event, nil
}

// EventFromGoogle keeps the fields the dashboard shows
func EventFromGoogle(item *gcal.Event) ports.CalendarEvent {
	event := ports.CalendarEvent{
		ID:       item.Id,
		Summary:  item.Summary,
		HTMLLink: item.HtmlLink,
	}
	event.Start, event.AllDay = parseEventTime(item.Start)
	event.End, _ = parseEventTime(item.End)
	return event
}

func parseEventTime(t *gcal.EventDateTime) (time.Time, bool) {
	if t == nil {
		return time.Time{}, false
	}
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err == nil {
			return parsed, false
		}
	}
	if t.Date != "" {
		parsed, err := time.Parse(dateLayout, t.Date)
		if err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func mapError(err error) error {
	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusForbidden:
			return &errors.AppError{Code: errors.CodeForbidden, Message: "Insufficient Google Calendar permissions", Cause: err}
		case http.StatusUnauthorized:
			return &errors.AppError{Code: errors.CodeUnauthorized, Message: "Google authentication expired", Cause: err}
		}
	}
	return errors.ExternalServiceError("calendar", fmt.Errorf("google calendar: %w", err))
}

func isGone(err error) bool {
	var apiErr *googleapi.Error
	return stderrors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone)
}
