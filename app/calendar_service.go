package app

import (
	"context"
	"log"
	"time"

	"worklog/internal/errors"
	"worklog/models"
	"worklog/ports"
)

// CalendarStatus tells the client whether calendar features are usable
type CalendarStatus struct {
	IsConnected bool   `json:"isConnected"`
	Message     string `json:"message"`
}

// CalendarService reads the caller's calendar
type CalendarService struct {
	calendar ports.Calendar
	now      func() time.Time
}

// NewCalendarService creates a calendar service; calendar may be nil
func NewCalendarService(calendar ports.Calendar, now func() time.Time) *CalendarService {
	if now == nil {
		now = time.Now
	}
	return &CalendarService{calendar: calendar, now: now}
}

// MonthEvents lists events of the current calendar month, earliest first
func (s *CalendarService) MonthEvents(ctx context.Context, caller models.Identity) ([]ports.CalendarEvent, error) {
	if s.calendar == nil || caller.CalendarToken == "" {
		return nil, errors.Unauthorized("Unauthorized")
	}

	from, to := MonthBounds(s.now())
	events, err := s.calendar.ListEvents(ctx, caller.CalendarToken, from, to)
	if err != nil {
		log.Printf("[CalendarService] listing events for user %s failed: %v", caller.UserID, err)
		if errors.Is(err, errors.CodeForbidden) {
			return nil, errors.Forbidden("Insufficient Google Calendar permissions")
		}
		return nil, &errors.AppError{Code: errors.CodeExternalService, Message: "Error fetching events", Cause: err}
	}
	if events == nil {
		events = []ports.CalendarEvent{}
	}
	return events, nil
}

// Status checks the caller's calendar token. It never fails.
func (s *CalendarService) Status(ctx context.Context, caller models.Identity) CalendarStatus {
	if s.calendar == nil || caller.CalendarToken == "" {
		return CalendarStatus{IsConnected: false, Message: "Not authenticated with Google."}
	}
	if err := s.calendar.Status(ctx, caller.CalendarToken); err != nil {
		log.Printf("[CalendarService] token check for user %s failed: %v", caller.UserID, err)
		return CalendarStatus{IsConnected: false, Message: "Google authentication expired. Please reconnect."}
	}
	return CalendarStatus{IsConnected: true, Message: "Connected to Google Calendar."}
}

// MonthBounds returns the first and last instant of the month containing t
func MonthBounds(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	to := from.AddDate(0, 1, 0).Add(-time.Second)
	return from, to
}
