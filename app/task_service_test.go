package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "worklog/internal/errors"
	"worklog/internal/testkit"
	"worklog/models"
	"worklog/ports"
)

type taskFixture struct {
	kit      *testkit.TestKit
	calendar *fakeCalendar
	syncer   *CalendarSyncer
	service  *TaskService
}

func newTaskFixture() *taskFixture {
	kit := testkit.NewTestKit().WithClock(clock(fixedNow))
	cal := &fakeCalendar{}
	syncer := NewCalendarSyncer(cal, kit.Tasks(), time.Second, 16)
	return &taskFixture{
		kit:      kit,
		calendar: cal,
		syncer:   syncer,
		service:  NewTaskService(kit.Tasks(), kit.Logs(), syncer, clock(fixedNow)),
	}
}

var (
	alice = models.Identity{UserID: "alice", CalendarToken: "tok-a"}
	bob   = models.Identity{UserID: "bob"}
)

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func TestTaskService_CreateDefaultsAndValidation(t *testing.T) {
	f := newTaskFixture()

	task, err := f.service.Create(context.Background(), bob, CreateTaskRequest{Title: "Write docs"})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.CompletedAt)

	tests := []struct {
		name string
		req  CreateTaskRequest
	}{
		{"missing title", CreateTaskRequest{}},
		{"bad priority", CreateTaskRequest{Title: "t", Priority: "Urgent"}},
		{"bad due date", CreateTaskRequest{Title: "t", DueDate: "soon"}},
		{"bad time", CreateTaskRequest{Title: "t", Time: "25:99"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), bob, tt.req)
			assert.Equal(t, apperrors.CodeValidationError, apperrors.GetCode(err))
		})
	}
}

func TestTaskService_UpdateCompletionEmitsOneLog(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture()

	task, err := f.service.Create(ctx, bob, CreateTaskRequest{Title: "Deploy", Priority: "High"})
	require.NoError(t, err)

	updated, err := f.service.Update(ctx, bob, task.ID, UpdateTaskRequest{IsCompleted: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsCompleted)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, fixedNow, *updated.CompletedAt)

	// repeating the same flag is not a transition
	_, err = f.service.Update(ctx, bob, task.ID, UpdateTaskRequest{IsCompleted: boolPtr(true)})
	require.NoError(t, err)

	logs, err := f.kit.Logs().ListRecent(ctx, "bob", 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Completed Task: Deploy", logs[0].Title)
	assert.Equal(t, "Task: Deploy marked as complete.", logs[0].Content)
	assert.Equal(t, models.CategoryTaskCompletion, logs[0].Category)
	assert.Equal(t, fixedNow, logs[0].Timestamp)

	reopened, err := f.service.Update(ctx, bob, task.ID, UpdateTaskRequest{IsCompleted: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, reopened.IsCompleted)
	assert.Nil(t, reopened.CompletedAt)
}

// barrierTasks holds every GetByID until all expected readers have loaded
// the task, so both callers observe it as still open.
type barrierTasks struct {
	ports.TaskRepository
	readers *sync.WaitGroup
}

func (b *barrierTasks) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := b.TaskRepository.GetByID(ctx, id)
	b.readers.Done()
	b.readers.Wait()
	return task, err
}

func TestTaskService_ConcurrentCompletionLogsOnce(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture()
	task, err := f.service.Create(ctx, bob, CreateTaskRequest{Title: "Deploy"})
	require.NoError(t, err)

	readers := &sync.WaitGroup{}
	readers.Add(2)
	service := NewTaskService(&barrierTasks{TaskRepository: f.kit.Tasks(), readers: readers}, f.kit.Logs(), nil, clock(fixedNow))

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = service.Update(ctx, bob, task.ID, UpdateTaskRequest{IsCompleted: boolPtr(true)})
	}()
	go func() {
		defer wg.Done()
		_, _, errs[1] = service.Complete(ctx, bob, task.ID, CompleteTaskRequest{})
	}()
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
			assert.Equal(t, apperrors.CodeValidationError, apperrors.GetCode(err))
			assert.Equal(t, "Task is already completed", apperrors.PublicMessage(err))
		}
	}
	assert.Equal(t, 1, failed)

	count, err := f.kit.Logs().Count(ctx, "bob", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := f.kit.Tasks().GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted)
}

func TestTaskService_UpdatePartialFields(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture()

	task, err := f.service.Create(ctx, bob, CreateTaskRequest{Title: "Plan", Description: "keep me"})
	require.NoError(t, err)

	updated, err := f.service.Update(ctx, bob, task.ID, UpdateTaskRequest{
		Title: strPtr("Plan Q2"), DueDate: strPtr("2024-04-01"), Time: strPtr("09:30"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Plan Q2", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, "09:30", updated.Time)
	assert.Equal(t, models.PriorityMedium, updated.Priority)

	_, err = f.service.Update(ctx, models.Identity{UserID: "mallory"}, task.ID, UpdateTaskRequest{Title: strPtr("x")})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
}

func TestTaskService_CompleteWithDetails(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture()

	task, err := f.service.Create(ctx, bob, CreateTaskRequest{Title: "Review PR", Description: "Reviewed auth PR"})
	require.NoError(t, err)

	done, entry, err := f.service.Complete(ctx, bob, task.ID, CompleteTaskRequest{Duration: intPtr(45), Category: "Technical"})
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)
	assert.Equal(t, "Reviewed auth PR", entry.Content)
	assert.Equal(t, models.CategoryTechnical, entry.Category)
	assert.Equal(t, 45, *entry.Duration)

	_, _, err = f.service.Complete(ctx, bob, task.ID, CompleteTaskRequest{})
	assert.Equal(t, apperrors.CodeValidationError, apperrors.GetCode(err))

	other, err := f.service.Create(ctx, bob, CreateTaskRequest{Title: "Other"})
	require.NoError(t, err)
	_, _, err = f.service.Complete(ctx, models.Identity{UserID: "mallory"}, other.ID, CompleteTaskRequest{})
	assert.Equal(t, apperrors.CodeForbidden, apperrors.GetCode(err))

	_, _, err = f.service.Complete(ctx, bob, uuid.New(), CompleteTaskRequest{})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))

	_, logged, err := f.service.Complete(ctx, bob, other.ID, CompleteTaskRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryTaskCompletion, logged.Category)

	count, err := f.kit.Logs().Count(ctx, "bob", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTaskService_CompleteRejectsInvalidCategory(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture()
	task, err := f.service.Create(ctx, bob, CreateTaskRequest{Title: "t"})
	require.NoError(t, err)

	_, _, err = f.service.Complete(ctx, bob, task.ID, CompleteTaskRequest{Category: "Cooking"})
	assert.Equal(t, apperrors.CodeValidationError, apperrors.GetCode(err))

	stored, err := f.kit.Tasks().GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsCompleted)
}

func TestTaskService_DeleteIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture()
	task, err := f.service.Create(ctx, bob, CreateTaskRequest{Title: "t"})
	require.NoError(t, err)

	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(f.service.Delete(ctx, models.Identity{UserID: "eve"}, task.ID)))
	require.NoError(t, f.service.Delete(ctx, bob, task.ID))
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(f.service.Delete(ctx, bob, task.ID)))
}

func TestTaskService_CalendarSyncStoresEventID(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture()

	task, err := f.service.Create(ctx, alice, CreateTaskRequest{Title: "Standup", DueDate: "2024-03-21", Time: "09:00"})
	require.NoError(t, err)
	f.syncer.Wait()

	result := <-f.syncer.Results()
	require.NoError(t, result.Err)
	assert.Equal(t, CalendarCreate, result.Op)
	assert.Equal(t, "evt-Standup", result.EventID)

	stored, err := f.kit.Tasks().GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "evt-Standup", stored.CalendarEventID)

	require.NoError(t, f.service.Delete(ctx, alice, task.ID))
	f.syncer.Wait()
	deleted := <-f.syncer.Results()
	assert.Equal(t, CalendarDelete, deleted.Op)
	assert.Equal(t, []string{"evt-Standup"}, f.calendar.deleted)
}

func TestTaskService_CalendarFailureNeverBlocksMutation(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture()
	f.calendar.failWith = errors.New("calendar down")
	f.calendar.block = make(chan struct{})

	task, err := f.service.Create(ctx, alice, CreateTaskRequest{Title: "Ship", DueDate: "2024-03-22"})
	require.NoError(t, err)

	stored, err := f.kit.Tasks().GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ship", stored.Title)

	close(f.calendar.block)
	f.syncer.Wait()
	result := <-f.syncer.Results()
	assert.EqualError(t, result.Err, "calendar down")

	stored, err = f.kit.Tasks().GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.CalendarEventID)
}

func TestTaskService_NoTokenNoSync(t *testing.T) {
	f := newTaskFixture()
	_, err := f.service.Create(context.Background(), bob, CreateTaskRequest{Title: "t", DueDate: "2024-03-22"})
	require.NoError(t, err)
	f.syncer.Wait()

	select {
	case r := <-f.syncer.Results():
		t.Fatalf("unexpected sync result: %+v", r)
	default:
	}
	assert.Empty(t, f.calendar.created)
}

var _ ports.Calendar = (*fakeCalendar)(nil)
