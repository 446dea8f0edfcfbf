package ports

import (
	"context"
	"time"

	"worklog/models"

	"github.com/google/uuid"
)

// LogRepository defines persistence for work-log entries. Every query that
// takes an owner id only sees that owner's rows.
type LogRepository interface {
	// Create stores a new entry and fills in its ID and CreatedAt
	Create(ctx context.Context, entry *models.LogEntry) error

	// GetByID returns an entry regardless of owner; callers enforce ownership
	GetByID(ctx context.Context, id uuid.UUID) (*models.LogEntry, error)

	// Update replaces an entry owned by entry.UserID; NotFound when no row matched
	Update(ctx context.Context, entry *models.LogEntry) error

	// Delete removes an owned entry; NotFound when no row matched
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error

	// ListInRange returns entries with start <= timestamp <= end, oldest first
	ListInRange(ctx context.Context, ownerID string, start, end time.Time) ([]models.LogEntry, error)

	// ListRecent returns the newest entries, newest first
	ListRecent(ctx context.Context, ownerID string, limit int) ([]models.LogEntry, error)

	// Count counts entries; a nil category counts all of them
	Count(ctx context.Context, ownerID string, category *models.Category) (int, error)
}
