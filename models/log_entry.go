package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"worklog/internal/errors"
)

// Category classifies a log entry
type Category string

const (
	CategoryUnset          Category = ""
	CategoryTechnical      Category = "Technical"
	CategoryNonTechnical   Category = "Non-Technical"
	CategoryTaskCompletion Category = "Task Completion"
)

// Valid reports whether c is one of the known categories (or unset)
func (c Category) Valid() bool {
	switch c {
	case CategoryUnset, CategoryTechnical, CategoryNonTechnical, CategoryTaskCompletion:
		return true
	}
	return false
}

// LogEntry is one unit of recorded work. Timestamp is when the work
// happened, which is not necessarily when the row was created.
type LogEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Title     string    `json:"title,omitempty" db:"title"`
	Content   string    `json:"content" db:"content"`
	Category  Category  `json:"category,omitempty" db:"category"`
	Duration  *int      `json:"duration,omitempty" db:"duration"`
	Timestamp time.Time `json:"timestamp" db:"occurred_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Validate checks the invariants a log entry must hold before it is stored
func (l *LogEntry) Validate() error {
	if strings.TrimSpace(l.UserID) == "" {
		return errors.ValidationError("Owner is required")
	}
	if strings.TrimSpace(l.Content) == "" {
		return errors.ValidationError("Content is required")
	}
	if !l.Category.Valid() {
		return errors.ValidationError("Invalid category")
	}
	if l.Duration != nil && *l.Duration < 0 {
		return errors.ValidationError("Duration must not be negative")
	}
	if l.Timestamp.IsZero() {
		return errors.ValidationError("Timestamp is required")
	}
	return nil
}

// LogSummary is the dashboard view over a user's logs
type LogSummary struct {
	Logs             []LogEntry `json:"logs"`
	TotalLogs        int        `json:"totalLogs"`
	TechnicalLogs    int        `json:"technicalLogs"`
	NonTechnicalLogs int        `json:"nonTechnicalLogs"`
}

// DurationStats summarises logged durations (minutes)
type DurationStats struct {
	Count             int                `json:"count"`
	WithDuration      int                `json:"withDuration"`
	TotalMinutes      float64            `json:"totalMinutes"`
	MeanMinutes       float64            `json:"meanMinutes"`
	MedianMinutes     float64            `json:"medianMinutes"`
	P90Minutes        float64            `json:"p90Minutes"`
	StdDevMinutes     float64            `json:"stdDevMinutes"`
	MinutesByCategory map[string]float64 `json:"minutesByCategory"`
}
