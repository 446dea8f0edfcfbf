package ports

import (
	"context"
	"time"

	"worklog/models"
)

// CalendarEvent is the subset of an external calendar event we expose
type CalendarEvent struct {
	ID       string    `json:"id"`
	Summary  string    `json:"summary"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"allDay"`
	HTMLLink string    `json:"htmlLink,omitempty"`
}

// Calendar mirrors tasks into a user's external calendar. Every call is
// authorized by the caller's access token.
type Calendar interface {
	CreateEvent(ctx context.Context, token string, task models.Task) (string, error)
	UpdateEvent(ctx context.Context, token, eventID string, task models.Task) error
	DeleteEvent(ctx context.Context, token, eventID string) error
	ListEvents(ctx context.Context, token string, from, to time.Time) ([]CalendarEvent, error)

	// Status returns nil when the token is accepted by the provider
	Status(ctx context.Context, token string) error
}
