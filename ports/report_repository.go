package ports

import (
	"context"
	"time"

	"worklog/models"

	"github.com/google/uuid"
)

// ReportRepository persists generated reports. Reports are append-only.
type ReportRepository interface {
	// CommitGeneration inserts the report and advances the owner's
	// last-report timestamp to report.GeneratedAt in one atomic step. The
	// advance only happens while the stored timestamp still equals
	// observedLast; otherwise nothing is written and a RATE_LIMITED error
	// is returned.
	CommitGeneration(ctx context.Context, report *models.Report, observedLast *time.Time) error

	// List returns an owner's reports newest first; limit <= 0 means all
	List(ctx context.Context, ownerID string, limit int) ([]models.Report, error)

	// GetByID returns a report regardless of owner; callers enforce ownership
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
}
