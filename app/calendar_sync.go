package app

import (
	"context"
	"sync"
	"time"

	"worklog/internal"
	"worklog/models"
	"worklog/ports"

	"github.com/google/uuid"
)

// CalendarSyncOp is the mutation mirrored to the calendar
type CalendarSyncOp string

const (
	CalendarCreate CalendarSyncOp = "create"
	CalendarUpdate CalendarSyncOp = "update"
	CalendarDelete CalendarSyncOp = "delete"
)

// CalendarSyncResult reports the outcome of one background sync job
type CalendarSyncResult struct {
	UserID  string
	TaskID  uuid.UUID
	Op      CalendarSyncOp
	EventID string
	Err     error
}

// CalendarSyncer mirrors task mutations to the user's calendar off the
// request path. Outcomes are logged and published on Results; a full
// results buffer drops the result rather than blocking a job.
type CalendarSyncer struct {
	calendar ports.Calendar
	tasks    ports.TaskRepository
	timeout  time.Duration
	results  chan CalendarSyncResult
	wg       sync.WaitGroup
	logger   *internal.Logger
}

// NewCalendarSyncer creates a syncer; a nil calendar disables syncing
func NewCalendarSyncer(calendar ports.Calendar, tasks ports.TaskRepository, timeout time.Duration, buffer int) *CalendarSyncer {
	if buffer <= 0 {
		buffer = 64
	}
	return &CalendarSyncer{
		calendar: calendar,
		tasks:    tasks,
		timeout:  timeout,
		results:  make(chan CalendarSyncResult, buffer),
		logger:   internal.NewDefaultLogger("CalendarSync"),
	}
}

// Results exposes finished jobs
func (s *CalendarSyncer) Results() <-chan CalendarSyncResult {
	return s.results
}

// Wait blocks until every dispatched job has finished
func (s *CalendarSyncer) Wait() {
	s.wg.Wait()
}

// Dispatch schedules a sync job and returns immediately. It reports whether
// a job was started; nothing is started without a calendar or token.
func (s *CalendarSyncer) Dispatch(ctx context.Context, token string, op CalendarSyncOp, task models.Task) bool {
	if s == nil || s.calendar == nil || token == "" {
		return false
	}
	switch op {
	case CalendarCreate:
		if task.DueDate == nil {
			return false
		}
	case CalendarUpdate:
		if task.DueDate == nil && task.CalendarEventID == "" {
			return false
		}
	case CalendarDelete:
		if task.CalendarEventID == "" {
			return false
		}
	}

	jobCtx := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if s.timeout > 0 {
			var cancel context.CancelFunc
			jobCtx, cancel = context.WithTimeout(jobCtx, s.timeout)
			defer cancel()
		}
		s.publish(s.run(jobCtx, token, op, task))
	}()
	return true
}

func (s *CalendarSyncer) run(ctx context.Context, token string, op CalendarSyncOp, task models.Task) CalendarSyncResult {
	result := CalendarSyncResult{UserID: task.UserID, TaskID: task.ID, Op: op, EventID: task.CalendarEventID}

	switch {
	case op == CalendarDelete:
		result.Err = s.calendar.DeleteEvent(ctx, token, task.CalendarEventID)
	case task.CalendarEventID != "":
		result.Err = s.calendar.UpdateEvent(ctx, token, task.CalendarEventID, task)
	default:
		eventID, err := s.calendar.CreateEvent(ctx, token, task)
		if err != nil {
			result.Err = err
			break
		}
		result.EventID = eventID
		result.Err = s.tasks.SetCalendarEventID(ctx, task.UserID, task.ID, eventID)
	}

	if result.Err != nil {
		s.logger.Warn("%s for task %s failed: %v", op, task.ID, result.Err)
	} else {
		s.logger.Debug("%s for task %s synced as event %s", op, task.ID, result.EventID)
	}
	return result
}

func (s *CalendarSyncer) publish(result CalendarSyncResult) {
	select {
	case s.results <- result:
	default:
		s.logger.Warn("results buffer full, dropping %s result for task %s", result.Op, result.TaskID)
	}
}
