package app

import (
	"time"

	"worklog/models"
)

// CompiledLog is the only view of a log entry that is sent to the
// generation service.
type CompiledLog struct {
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
	Category  string `json:"category,omitempty"`
	Duration  *int   `json:"duration,omitempty"`
}

// CompileLogs converts entries, preserving their order
func CompileLogs(entries []models.LogEntry) []CompiledLog {
	compiled := make([]CompiledLog, 0, len(entries))
	for _, e := range entries {
		compiled = append(compiled, CompiledLog{
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
			Content:   e.Content,
			Category:  string(e.Category),
			Duration:  e.Duration,
		})
	}
	return compiled
}
