package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"worklog/internal/testkit"
	"worklog/models"
	"worklog/ports"
)

type mockUsageRepo struct {
	mock.Mock
}

func (m *mockUsageRepo) RecordUsage(ctx context.Context, usage *models.LLMUsage) error {
	return m.Called(ctx, usage).Error(0)
}

func (m *mockUsageRepo) GetUserUsageSummary(ctx context.Context, userID string, start, end time.Time) (*models.UserUsageSummary, error) {
	args := m.Called(ctx, userID, start, end)
	summary, _ := args.Get(0).(*models.UserUsageSummary)
	return summary, args.Error(1)
}

func TestRecordUsage_PersistsAsync(t *testing.T) {
	kit := testkit.NewTestKit()
	svc := NewService(kit.Usage())

	err := svc.RecordUsage(context.Background(), "user-1", nil, models.OpReportGeneration, &ports.UsageData{
		PromptTokens: 10, CompletionTokens: 5, Model: "gemini-2.5-flash", Provider: "gemini",
	})
	require.NoError(t, err)
	svc.Wait()

	records := kit.UsageRecords()
	require.Len(t, records, 1)
	assert.Equal(t, 15, records[0].TotalTokens)
	assert.Equal(t, "user-1", records[0].UserID)
	assert.Equal(t, models.OpReportGeneration, records[0].OperationType)
}

func TestRecordUsage_IgnoresInvalidUsage(t *testing.T) {
	repo := &mockUsageRepo{}
	svc := NewService(repo)

	require.NoError(t, svc.RecordUsage(context.Background(), "u", nil, models.OpReportGeneration, nil))
	require.NoError(t, svc.RecordUsage(context.Background(), "u", nil, models.OpReportGeneration, &ports.UsageData{PromptTokens: -1}))
	svc.Wait()

	repo.AssertNotCalled(t, "RecordUsage", mock.Anything, mock.Anything)
}

func TestRecordUsage_RetriesThenSucceeds(t *testing.T) {
	repo := &mockUsageRepo{}
	repo.On("RecordUsage", mock.Anything, mock.Anything).Return(errors.New("db down")).Twice()
	repo.On("RecordUsage", mock.Anything, mock.Anything).Return(nil).Once()

	svc := NewService(repo)
	svc.baseDelay = time.Millisecond

	require.NoError(t, svc.RecordUsage(context.Background(), "u", nil, models.OpReportGeneration, &ports.UsageData{TotalTokens: 3}))
	svc.Wait()

	repo.AssertNumberOfCalls(t, "RecordUsage", 3)
}

func TestRecordUsage_GivesUpAfterRetries(t *testing.T) {
	repo := &mockUsageRepo{}
	repo.On("RecordUsage", mock.Anything, mock.Anything).Return(errors.New("db down"))

	svc := NewService(repo)
	svc.baseDelay = time.Millisecond

	require.NoError(t, svc.RecordUsage(context.Background(), "u", nil, models.OpReportGeneration, &ports.UsageData{TotalTokens: 3}))
	svc.Wait()

	repo.AssertNumberOfCalls(t, "RecordUsage", 4)
}
