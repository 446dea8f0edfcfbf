package ports

import (
	"context"

	"worklog/models"

	"github.com/google/uuid"
)

// TaskRepository defines persistence for tasks
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error

	// GetByID returns a task regardless of owner; callers enforce ownership
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)

	// ListByOwner returns tasks newest first
	ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error)

	// Update replaces a task owned by task.UserID; NotFound when no row matched
	Update(ctx context.Context, task *models.Task) error

	// Complete writes a completing task only while the stored row is still
	// open. NotFound when no owned row exists, ValidationError when it was
	// already completed.
	Complete(ctx context.Context, task *models.Task) error

	// Delete removes an owned task; NotFound when no row matched
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error

	// SetCalendarEventID records the external calendar event mirroring a task
	SetCalendarEventID(ctx context.Context, ownerID string, id uuid.UUID, eventID string) error
}
