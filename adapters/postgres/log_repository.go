package postgres

import (
	"context"
	"time"

	"worklog/internal/errors"
	"worklog/models"
	"worklog/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const logColumns = `id, user_id, title, content, category, duration, occurred_at, created_at`

// LogRepositoryImpl implements LogRepository for PostgreSQL
type LogRepositoryImpl struct {
	db *sqlx.DB
}

// NewLogRepository creates a new PostgreSQL log repository
func NewLogRepository(db *sqlx.DB) ports.LogRepository {
	return &LogRepositoryImpl{db: db}
}

// Create stores a new entry
func (r *LogRepositoryImpl) Create(ctx context.Context, entry *models.LogEntry) error {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now().UTC()
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO logs (`+logColumns+`)
		VALUES (:id, :user_id, :title, :content, :category, :duration, :occurred_at, :created_at)
	`, entry)
	if err != nil {
		return errors.DatabaseError("failed to insert log", err)
	}
	return nil
}

// GetByID returns a single entry
func (r *LogRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.LogEntry, error) {
	var entry models.LogEntry
	if err := r.db.GetContext(ctx, &entry, `SELECT `+logColumns+` FROM logs WHERE id = $1`, id); err != nil {
		return nil, notFoundOr(err, "Log", "failed to load log")
	}
	return &entry, nil
}

// Update replaces an owned entry
func (r *LogRepositoryImpl) Update(ctx context.Context, entry *models.LogEntry) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE logs
		SET title = :title, content = :content, category = :category,
		    duration = :duration, occurred_at = :occurred_at
		WHERE id = :id AND user_id = :user_id
	`, entry)
	if err != nil {
		return errors.DatabaseError("failed to update log", err)
	}
	return expectOneRow(res, "Log")
}

// Delete removes an owned entry
func (r *LogRepositoryImpl) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM logs WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return errors.DatabaseError("failed to delete log", err)
	}
	return expectOneRow(res, "Log")
}

// ListInRange returns entries inside [start, end], oldest first
func (r *LogRepositoryImpl) ListInRange(ctx context.Context, ownerID string, start, end time.Time) ([]models.LogEntry, error) {
	entries := []models.LogEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT `+logColumns+`
		FROM logs
		WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at <= $3
		ORDER BY occurred_at ASC, id ASC
	`, ownerID, start, end)
	if err != nil {
		return nil, errors.DatabaseError("failed to list logs in range", err)
	}
	return entries, nil
}

// ListRecent returns the newest entries; limit <= 0 returns all of them
func (r *LogRepositoryImpl) ListRecent(ctx context.Context, ownerID string, limit int) ([]models.LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM logs WHERE user_id = $1 ORDER BY occurred_at DESC, id DESC`
	args := []interface{}{ownerID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	entries := []models.LogEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, errors.DatabaseError("failed to list recent logs", err)
	}
	return entries, nil
}

// Count counts an owner's entries, optionally of one category
func (r *LogRepositoryImpl) Count(ctx context.Context, ownerID string, category *models.Category) (int, error) {
	var (
		n   int
		err error
	)
	if category == nil {
		err = r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM logs WHERE user_id = $1`, ownerID)
	} else {
		err = r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM logs WHERE user_id = $1 AND category = $2`, ownerID, string(*category))
	}
	if err != nil {
		return 0, errors.DatabaseError("failed to count logs", err)
	}
	return n, nil
}
