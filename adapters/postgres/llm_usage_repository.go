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

// LLMUsageRepositoryImpl implements LLMUsageRepository for PostgreSQL
type LLMUsageRepositoryImpl struct {
	db *sqlx.DB
}

// NewLLMUsageRepository creates a new PostgreSQL LLM usage repository
func NewLLMUsageRepository(db *sqlx.DB) ports.LLMUsageRepository {
	return &LLMUsageRepositoryImpl{db: db}
}

// RecordUsage records LLM usage for an API call
func (r *LLMUsageRepositoryImpl) RecordUsage(ctx context.Context, usage *models.LLMUsage) error {
	if usage.ID == uuid.Nil {
		usage.ID = uuid.New()
	}
	if usage.CreatedAt.IsZero() {
		usage.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO llm_usage (
			id, user_id, report_id, provider, model, operation_type,
			prompt_tokens, completion_tokens, total_tokens, created_at
		) VALUES (
			:id, :user_id, :report_id, :provider, :model, :operation_type,
			:prompt_tokens, :completion_tokens, :total_tokens, :created_at
		)
	`, usage)
	if err != nil {
		return errors.DatabaseError("failed to record llm usage", err)
	}
	return nil
}

// GetUserUsageSummary returns aggregated usage statistics for a user
func (r *LLMUsageRepositoryImpl) GetUserUsageSummary(ctx context.Context, userID string, start, end time.Time) (*models.UserUsageSummary, error) {
	summary := &models.UserUsageSummary{
		UserID:      userID,
		PeriodStart: start,
		PeriodEnd:   end,
		ByModel:     make(map[string]models.ModelUsage),
	}

	// Get basic aggregates
	err := r.db.GetContext(ctx, summary, `
		SELECT
			COUNT(*) AS request_count,
			COALESCE(SUM(total_tokens), 0) AS total_tokens,
			COALESCE(SUM(prompt_tokens), 0) AS total_prompt_tokens,
			COALESCE(SUM(completion_tokens), 0) AS total_completion_tokens
		FROM llm_usage
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
	`, userID, start, end)
	if err != nil {
		return nil, errors.DatabaseError("failed to aggregate llm usage", err)
	}

	// Get model breakdown
	var byModel []models.ModelUsage
	err = r.db.SelectContext(ctx, &byModel, `
		SELECT model, provider, SUM(total_tokens) AS total_tokens, COUNT(*) AS request_count
		FROM llm_usage
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		GROUP BY model, provider
	`, userID, start, end)
	if err != nil {
		return nil, errors.DatabaseError("failed to aggregate llm usage by model", err)
	}

	for _, m := range byModel {
		summary.ByModel[m.Model] = m
	}
	return summary, nil
}
