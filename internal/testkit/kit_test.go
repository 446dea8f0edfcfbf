package testkit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"worklog/internal/errors"
	"worklog/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitGeneration_CompareAndSwap(t *testing.T) {
	ctx := context.Background()
	kit := NewTestKit()
	kit.SeedUser(models.User{ID: "alice"})

	first := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	report := &models.Report{UserID: "alice", Title: "Feb", GeneratedAt: first}
	require.NoError(t, kit.Reports().CommitGeneration(ctx, report, nil))
	assert.NotEqual(t, uuid.Nil, report.ID)

	// A writer that still observed "never generated" loses
	stale := &models.Report{UserID: "alice", Title: "Feb again", GeneratedAt: first.Add(time.Minute)}
	err := kit.Reports().CommitGeneration(ctx, stale, nil)
	assert.Equal(t, errors.CodeRateLimited, errors.GetCode(err))
	assert.Equal(t, 1, kit.ReportCount("alice"))

	next := &models.Report{UserID: "alice", Title: "Mar", GeneratedAt: first.AddDate(0, 0, 10)}
	require.NoError(t, kit.Reports().CommitGeneration(ctx, next, &first))
	assert.Equal(t, 2, kit.ReportCount("alice"))

	user, err := kit.Users().GetUserByID(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, user.LastReportGeneratedAt)
	assert.True(t, user.LastReportGeneratedAt.Equal(next.GeneratedAt))
}

func TestCommitGeneration_UnknownUser(t *testing.T) {
	err := NewTestKit().Reports().CommitGeneration(context.Background(), &models.Report{UserID: "ghost"}, nil)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestReportsList_NewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	kit := NewTestKit()
	kit.SeedUser(models.User{ID: "alice"})

	var last *time.Time
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		at := base.AddDate(0, 0, 10*i)
		require.NoError(t, kit.Reports().CommitGeneration(ctx, &models.Report{UserID: "alice", GeneratedAt: at}, last))
		last = &at
	}

	all, err := kit.Reports().List(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].GeneratedAt.After(all[1].GeneratedAt))

	again, err := kit.Reports().List(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Equal(t, all, again)

	limited, err := kit.Reports().List(ctx, "alice", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, all[:2], limited)
}

func TestLists_EmptyNotNil(t *testing.T) {
	ctx := context.Background()
	kit := NewTestKit()

	reports, err := kit.Reports().List(ctx, "nobody", 0)
	require.NoError(t, err)
	raw, err := json.Marshal(reports)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	logs, err := kit.Logs().ListInRange(ctx, "nobody", time.Time{}, time.Now())
	require.NoError(t, err)
	assert.NotNil(t, logs)

	recent, err := kit.Logs().ListRecent(ctx, "nobody", 5)
	require.NoError(t, err)
	assert.NotNil(t, recent)

	tasks, err := kit.Tasks().ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, tasks)
}

func TestEnsureUser_KeepsStoredEmail(t *testing.T) {
	ctx := context.Background()
	users := NewTestKit().Users()

	created, err := users.EnsureUser(ctx, models.Identity{UserID: "alice"})
	require.NoError(t, err)
	assert.Empty(t, created.Email)

	again, err := users.EnsureUser(ctx, models.Identity{UserID: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Empty(t, again.Email)
}

func TestCompleteTask_SingleWinner(t *testing.T) {
	ctx := context.Background()
	tasks := NewTestKit().Tasks()
	task := &models.Task{UserID: "alice", Title: "Deploy", Priority: models.PriorityMedium}
	require.NoError(t, tasks.Create(ctx, task))

	first := *task
	first.MarkCompleted(time.Now().UTC())
	require.NoError(t, tasks.Complete(ctx, &first))

	second := *task
	second.MarkCompleted(time.Now().UTC())
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(tasks.Complete(ctx, &second)))

	foreign := *task
	foreign.UserID = "bob"
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(tasks.Complete(ctx, &foreign)))
}
