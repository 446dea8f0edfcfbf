package main

import (
	"context"
	"testing"
	"time"

	"worklog/adapters/excel"
	"worklog/app"
	apperrors "worklog/internal/errors"
	"worklog/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportRows_ContinuesPastBadRows(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	kit := testkit.NewTestKit()
	logs := app.NewLogService(kit.Logs(), func() time.Time { return now })
	minutes := 20

	rows := []excel.LogRow{
		{Line: 2, Content: "Reviewed PRs", Category: "Technical", Duration: &minutes, Timestamp: "2024-03-01"},
		{Line: 3, Content: "Planning", Category: "Gardening"},
		{Line: 4, Content: "Standup", Timestamp: "yesterday"},
		{Line: 5, Content: "Wrote docs"},
		{Line: 6, Content: "Pairing", Err: apperrors.InvalidInput(`Invalid duration "an hour"`)},
	}

	result := importRows(context.Background(), logs, "alice", rows)
	assert.Equal(t, 2, result.Imported)
	require.Len(t, result.Failed, 3)
	assert.Equal(t, 3, result.Failed[0].Line)
	assert.Equal(t, 4, result.Failed[1].Line)
	assert.Equal(t, 6, result.Failed[2].Line)

	out := renderImport(result)
	assert.Contains(t, out, "imported 2 log(s)")
	assert.Contains(t, out, "line 3: Invalid category")
	assert.Contains(t, out, "line 4: Invalid timestamp")
	assert.Contains(t, out, `line 6: Invalid duration "an hour"`)

	summary, err := logs.Summary(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalLogs)
}

func TestRenderCooldown(t *testing.T) {
	assert.Contains(t, renderCooldown("alice", app.CooldownStatus{Eligible: true}), "can generate a report now")
	assert.Contains(t, renderCooldown("alice", app.CooldownStatus{DaysLeft: 3}), "in 3 day(s)")
}

func TestRenderReports_Empty(t *testing.T) {
	assert.Contains(t, renderReports(nil), "no reports")
}
