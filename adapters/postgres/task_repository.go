package postgres

import (
	"context"

	"worklog/internal/errors"
	"worklog/models"
	"worklog/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const taskColumns = `id, user_id, title, description, due_date, due_time, priority, is_completed, completed_at, calendar_event_id, created_at`

// TaskRepositoryImpl implements TaskRepository for PostgreSQL
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new PostgreSQL task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

// Create stores a new task
func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	task.ID = uuid.New()
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (:id, :user_id, :title, :description, :due_date, :due_time, :priority,
		        :is_completed, :completed_at, :calendar_event_id, :created_at)
	`, task)
	if err != nil {
		return errors.DatabaseError("failed to insert task", err)
	}
	return nil
}

// GetByID returns a single task
func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := r.db.GetContext(ctx, &task, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id); err != nil {
		return nil, notFoundOr(err, "Task", "failed to load task")
	}
	return &task, nil
}

// ListByOwner returns an owner's tasks, newest first
func (r *TaskRepositoryImpl) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.SelectContext(ctx, &tasks, `
		SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, errors.DatabaseError("failed to list tasks", err)
	}
	return tasks, nil
}

// Update replaces an owned task. The calendar event id is only written by
// SetCalendarEventID so a background sync is never overwritten.
func (r *TaskRepositoryImpl) Update(ctx context.Context, task *models.Task) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE tasks
		SET title = :title, description = :description, due_date = :due_date,
		    due_time = :due_time, priority = :priority, is_completed = :is_completed,
		    completed_at = :completed_at
		WHERE id = :id AND user_id = :user_id
	`, task)
	if err != nil {
		return errors.DatabaseError("failed to update task", err)
	}
	return expectOneRow(res, "Task")
}

// Complete applies a completing update guarded on is_completed = false so
// concurrent completions of one task have a single winner.
func (r *TaskRepositoryImpl) Complete(ctx context.Context, task *models.Task) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE tasks
		SET title = :title, description = :description, due_date = :due_date,
		    due_time = :due_time, priority = :priority, is_completed = TRUE,
		    completed_at = :completed_at
		WHERE id = :id AND user_id = :user_id AND is_completed = FALSE
	`, task)
	if err != nil {
		return errors.DatabaseError("failed to complete task", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.DatabaseError("failed to read affected rows", err)
	}
	if n > 0 {
		return nil
	}

	var completed bool
	err = r.db.GetContext(ctx, &completed, `SELECT is_completed FROM tasks WHERE id = $1 AND user_id = $2`, task.ID, task.UserID)
	if err != nil {
		return notFoundOr(err, "Task", "failed to load task")
	}
	return errors.ValidationError("Task is already completed")
}

// Delete removes an owned task
func (r *TaskRepositoryImpl) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return errors.DatabaseError("failed to delete task", err)
	}
	return expectOneRow(res, "Task")
}

// SetCalendarEventID records the calendar event mirroring a task
func (r *TaskRepositoryImpl) SetCalendarEventID(ctx context.Context, ownerID string, id uuid.UUID, eventID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET calendar_event_id = $3 WHERE id = $1 AND user_id = $2
	`, id, ownerID, eventID)
	if err != nil {
		return errors.DatabaseError("failed to store calendar event id", err)
	}
	return expectOneRow(res, "Task")
}
