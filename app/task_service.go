package app

import (
	"context"
	"log"
	"strings"
	"time"

	"worklog/internal/errors"
	"worklog/models"
	"worklog/ports"

	"github.com/google/uuid"
)

// CreateTaskRequest is the payload for a new task
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Time        string `json:"time"`
	Priority    string `json:"priority"`
}

// UpdateTaskRequest is a partial update; nil fields are left untouched
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Time        *string `json:"time"`
	Priority    *string `json:"priority"`
	IsCompleted *bool   `json:"isCompleted"`
}

// CompleteTaskRequest carries the details logged when completing a task
type CompleteTaskRequest struct {
	Duration *int   `json:"duration"`
	Category string `json:"category"`
}

// TaskService owns the task lifecycle, including completion
type TaskService struct {
	tasks  ports.TaskRepository
	logs   ports.LogRepository
	syncer *CalendarSyncer
	now    func() time.Time
}

// NewTaskService creates a task service; syncer may be nil
func NewTaskService(tasks ports.TaskRepository, logs ports.LogRepository, syncer *CalendarSyncer, now func() time.Time) *TaskService {
	if now == nil {
		now = time.Now
	}
	return &TaskService{tasks: tasks, logs: logs, syncer: syncer, now: now}
}

// Create stores a new task and mirrors it to the calendar when possible
func (s *TaskService) Create(ctx context.Context, caller models.Identity, req CreateTaskRequest) (*models.Task, error) {
	dueDate, err := ParseOptionalDate(req.DueDate)
	if err != nil {
		return nil, errors.ValidationError("Invalid due date")
	}

	priority := models.Priority(req.Priority)
	if priority == "" {
		priority = models.PriorityMedium
	}

	task := &models.Task{
		UserID:      caller.UserID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DueDate:     dueDate,
		Time:        strings.TrimSpace(req.Time),
		Priority:    priority,
		CreatedAt:   s.now().UTC(),
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, errors.Wrap(err, "failed to create task")
	}

	s.syncer.Dispatch(ctx, caller.CalendarToken, CalendarCreate, *task)
	return task, nil
}

// List returns the caller's tasks newest first
func (s *TaskService) List(ctx context.Context, ownerID string) ([]models.Task, error) {
	tasks, err := s.tasks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks")
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Update applies a partial update. Flipping the completion flag to true
// completes the task in place and emits one completion log entry.
func (s *TaskService) Update(ctx context.Context, caller models.Identity, id uuid.UUID, req UpdateTaskRequest) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.UserID != caller.UserID {
		return nil, errors.NotFound("Task")
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.DueDate != nil {
		dueDate, err := ParseOptionalDate(*req.DueDate)
		if err != nil {
			return nil, errors.ValidationError("Invalid due date")
		}
		task.DueDate = dueDate
	}
	if req.Time != nil {
		task.Time = strings.TrimSpace(*req.Time)
	}
	if req.Priority != nil && *req.Priority != "" {
		task.Priority = models.Priority(*req.Priority)
	}

	completing := false
	if req.IsCompleted != nil && *req.IsCompleted != task.IsCompleted {
		if *req.IsCompleted {
			task.MarkCompleted(s.now().UTC())
			completing = true
		} else {
			task.MarkIncomplete()
		}
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if completing {
		entry := task.CompletionLog()
		if err := s.completeWithLog(ctx, task, &entry); err != nil {
			return nil, err
		}
	} else if err := s.tasks.Update(ctx, task); err != nil {
		return nil, errors.Wrap(err, "failed to update task")
	}

	s.syncer.Dispatch(ctx, caller.CalendarToken, CalendarUpdate, *task)
	return task, nil
}

// Complete marks an open task complete and logs it with the given details
func (s *TaskService) Complete(ctx context.Context, caller models.Identity, id uuid.UUID, req CompleteTaskRequest) (*models.Task, *models.LogEntry, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if task.UserID != caller.UserID {
		return nil, nil, errors.Forbidden("Forbidden")
	}
	if task.IsCompleted {
		return nil, nil, errors.ValidationError("Task is already completed")
	}

	category := models.Category(req.Category)
	if category == models.CategoryUnset {
		category = models.CategoryTaskCompletion
	}

	task.MarkCompleted(s.now().UTC())
	entry := task.CompletionLog()
	entry.Category = category
	entry.Duration = req.Duration

	if err := s.completeWithLog(ctx, task, &entry); err != nil {
		return nil, nil, err
	}

	s.syncer.Dispatch(ctx, caller.CalendarToken, CalendarUpdate, *task)
	return task, &entry, nil
}

// Delete removes an owned task and its calendar event
func (s *TaskService) Delete(ctx context.Context, caller models.Identity, id uuid.UUID) error {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if task.UserID != caller.UserID {
		return errors.NotFound("Task")
	}
	if err := s.tasks.Delete(ctx, caller.UserID, id); err != nil {
		return errors.Wrap(err, "failed to delete task")
	}

	s.syncer.Dispatch(ctx, caller.CalendarToken, CalendarDelete, *task)
	return nil
}

// completeWithLog claims the open to completed transition first and only
// then writes the entry, so concurrent completions produce one log. If the
// entry cannot be written the task is reopened.
func (s *TaskService) completeWithLog(ctx context.Context, task *models.Task, entry *models.LogEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if err := s.tasks.Complete(ctx, task); err != nil {
		return errors.Wrap(err, "failed to complete task")
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		reopened := *task
		reopened.MarkIncomplete()
		if revertErr := s.tasks.Update(ctx, &reopened); revertErr != nil {
			log.Printf("[TaskService] failed to reopen task %s: %v", task.ID, revertErr)
		}
		return errors.Wrap(err, "failed to create completion log")
	}
	log.Printf("[TaskService] task %s completed, logged as %s", task.ID, entry.ID)
	return nil
}
