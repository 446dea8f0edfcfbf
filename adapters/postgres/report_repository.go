package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log"
	"time"

	"worklog/internal/errors"
	"worklog/models"
	"worklog/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const reportColumns = `id, user_id, title, start_date, end_date, generated_at, report_content`

// ReportRepositoryImpl implements ReportRepository for PostgreSQL
type ReportRepositoryImpl struct {
	db *sqlx.DB
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &ReportRepositoryImpl{db: db}
}

// CommitGeneration inserts the report and advances the owner's cooldown in
// one transaction, guarded by compare-and-swap on the observed timestamp.
func (r *ReportRepositoryImpl) CommitGeneration(ctx context.Context, report *models.Report, observedLast *time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("failed to begin transaction", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !stderrors.Is(err, sql.ErrTxDone) {
			log.Printf("[ReportRepository] rollback failed: %v", err)
		}
	}()

	// postgres keeps microseconds; match it so the stored value compares equal
	report.GeneratedAt = report.GeneratedAt.Truncate(time.Microsecond)

	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET last_report_generated_at = $2, updated_at = NOW()
		WHERE id = $1 AND last_report_generated_at IS NOT DISTINCT FROM $3::timestamptz
	`, report.UserID, report.GeneratedAt, observedLast)
	if err != nil {
		return errors.DatabaseError("failed to advance report cooldown", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.DatabaseError("failed to read affected rows", err)
	}
	if n == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, report.UserID); err != nil {
			return errors.DatabaseError("failed to load user", err)
		}
		if !exists {
			return errors.NotFound("User")
		}
		return errors.RateLimited("Another report was generated for this period")
	}

	report.ID = uuid.New()
	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO reports (`+reportColumns+`)
		VALUES (:id, :user_id, :title, :start_date, :end_date, :generated_at, :report_content)
	`, report)
	if err != nil {
		report.ID = uuid.Nil
		return errors.DatabaseError("failed to insert report", err)
	}

	if err := tx.Commit(); err != nil {
		report.ID = uuid.Nil
		return errors.DatabaseError("failed to commit report", err)
	}
	return nil
}

// List returns an owner's reports newest first; limit <= 0 returns all
func (r *ReportRepositoryImpl) List(ctx context.Context, ownerID string, limit int) ([]models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE user_id = $1 ORDER BY generated_at DESC, id ASC`
	args := []interface{}{ownerID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	reports := []models.Report{}
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, errors.DatabaseError("failed to list reports", err)
	}
	return reports, nil
}

// GetByID returns a single report
func (r *ReportRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := r.db.GetContext(ctx, &report, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id); err != nil {
		return nil, notFoundOr(err, "Report", "failed to load report")
	}
	return &report, nil
}
