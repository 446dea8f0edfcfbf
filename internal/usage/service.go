package usage

import (
	"context"
	"sync"
	"time"

	"worklog/internal"
	"worklog/models"
	"worklog/ports"

	"github.com/google/uuid"
)

// Service handles LLM usage tracking and persistence
type Service struct {
	repo      ports.LLMUsageRepository
	baseDelay time.Duration
	wg        sync.WaitGroup
	logger    *internal.Logger
}

// NewService creates a new usage service
func NewService(repo ports.LLMUsageRepository) *Service {
	return &Service{
		repo:      repo,
		baseDelay: 100 * time.Millisecond,
		logger:    internal.NewDefaultLogger("UsageService"),
	}
}

// RecordUsage asynchronously records LLM usage for a user operation
func (s *Service) RecordUsage(ctx context.Context, userID string, reportID *uuid.UUID, operationType string, usage *ports.UsageData) error {
	// Validate usage data
	if usage == nil {
		s.logger.Error("nil usage data provided")
		return nil // Don't fail the caller for tracking issues
	}

	if usage.PromptTokens < 0 || usage.CompletionTokens < 0 || usage.TotalTokens < 0 {
		s.logger.Error("invalid token counts: %+v", usage)
		return nil
	}

	total := usage.TotalTokens
	if total == 0 {
		total = usage.PromptTokens + usage.CompletionTokens
	}

	llmUsage := &models.LLMUsage{
		ID:               uuid.New(),
		UserID:           userID,
		ReportID:         reportID,
		Provider:         usage.Provider,
		Model:            usage.Model,
		OperationType:    operationType,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      total,
		CreatedAt:        time.Now().UTC(),
	}

	// Async persistence so the report response never waits on bookkeeping
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.persistWithRetry(context.WithoutCancel(ctx), llmUsage); err != nil {
			s.logger.Error("failed to persist usage after retries: %v", err)
		}
	}()

	return nil
}

// persistWithRetry attempts to persist usage with linear backoff
func (s *Service) persistWithRetry(ctx context.Context, usage *models.LLMUsage) error {
	const maxRetries = 3

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := s.repo.RecordUsage(ctx, usage)
		if err == nil {
			return nil
		}
		s.logger.Debug("attempt %d to record usage %s failed: %v", attempt+1, usage.ID, err)

		if attempt < maxRetries-1 {
			time.Sleep(time.Duration(attempt+1) * s.baseDelay)
		}
	}

	// Final attempt
	return s.repo.RecordUsage(ctx, usage)
}

// Wait blocks until pending usage writes have finished
func (s *Service) Wait() {
	s.wg.Wait()
}

// GetUserUsageSummary returns aggregated usage for a user in a time period
func (s *Service) GetUserUsageSummary(ctx context.Context, userID string, start, end time.Time) (*models.UserUsageSummary, error) {
	return s.repo.GetUserUsageSummary(ctx, userID, start, end)
}

// LastDays returns the summary for the trailing window ending now
func (s *Service) LastDays(ctx context.Context, userID string, days int) (*models.UserUsageSummary, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)
	return s.GetUserUsageSummary(ctx, userID, start, end)
}
