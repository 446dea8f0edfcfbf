package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"worklog/internal/errors"
)

// Priority of a task
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a pending unit of work. CompletedAt is set if and only if
// IsCompleted is true.
type Task struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          string     `json:"userId" db:"user_id"`
	Title           string     `json:"title" db:"title"`
	Description     string     `json:"description,omitempty" db:"description"`
	DueDate         *time.Time `json:"dueDate,omitempty" db:"due_date"`
	Time            string     `json:"time,omitempty" db:"due_time"`
	Priority        Priority   `json:"priority" db:"priority"`
	IsCompleted     bool       `json:"isCompleted" db:"is_completed"`
	CompletedAt     *time.Time `json:"completedAt,omitempty" db:"completed_at"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	CalendarEventID string     `json:"googleCalendarEventId,omitempty" db:"calendar_event_id"`
}

// Validate checks task invariants
func (t *Task) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return errors.ValidationError("Owner is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.ValidationError("Title is required")
	}
	if !t.Priority.Valid() {
		return errors.ValidationError("Priority must be Low, Medium or High")
	}
	if t.Time != "" {
		if _, err := time.Parse("15:04", t.Time); err != nil {
			return errors.ValidationError("Time must be HH:MM")
		}
	}
	if t.IsCompleted != (t.CompletedAt != nil) {
		return errors.ValidationError("Completion timestamp must match completion flag")
	}
	return nil
}

// MarkCompleted flips the task to completed at the given instant
func (t *Task) MarkCompleted(at time.Time) {
	t.IsCompleted = true
	completed := at
	t.CompletedAt = &completed
}

// MarkIncomplete reopens the task
func (t *Task) MarkIncomplete() {
	t.IsCompleted = false
	t.CompletedAt = nil
}

// CompletionLog builds the log entry emitted when the task is completed
func (t *Task) CompletionLog() LogEntry {
	content := t.Description
	if strings.TrimSpace(content) == "" {
		content = "Task: " + t.Title + " marked as complete."
	}
	at := time.Now().UTC()
	if t.CompletedAt != nil {
		at = *t.CompletedAt
	}
	return LogEntry{
		UserID:    t.UserID,
		Title:     "Completed Task: " + t.Title,
		Content:   content,
		Category:  CategoryTaskCompletion,
		Timestamp: at,
	}
}
