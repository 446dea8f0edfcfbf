package models

import (
	"time"

	"github.com/google/uuid"
)

// LLMUsage represents a single LLM API call's token usage
type LLMUsage struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	UserID           string     `json:"user_id" db:"user_id"`
	ReportID         *uuid.UUID `json:"report_id,omitempty" db:"report_id"`
	Provider         string     `json:"provider" db:"provider"`             // 'gemini', 'openai'
	Model            string     `json:"model" db:"model"`                   // 'gemini-2.5-flash', ...
	OperationType    string     `json:"operation_type" db:"operation_type"` // 'report_generation'
	PromptTokens     int        `json:"prompt_tokens" db:"prompt_tokens"`
	CompletionTokens int        `json:"completion_tokens" db:"completion_tokens"`
	TotalTokens      int        `json:"total_tokens" db:"total_tokens"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// UserUsageSummary provides aggregated usage statistics for a user
type UserUsageSummary struct {
	UserID                string                `json:"user_id" db:"-"`
	PeriodStart           time.Time             `json:"period_start" db:"-"`
	PeriodEnd             time.Time             `json:"period_end" db:"-"`
	TotalTokens           int                   `json:"total_tokens" db:"total_tokens"`
	TotalPromptTokens     int                   `json:"total_prompt_tokens" db:"total_prompt_tokens"`
	TotalCompletionTokens int                   `json:"total_completion_tokens" db:"total_completion_tokens"`
	RequestCount          int                   `json:"request_count" db:"request_count"`
	ByModel               map[string]ModelUsage `json:"by_model" db:"-"`
}

// ModelUsage represents usage aggregated by model
type ModelUsage struct {
	Model        string `json:"model" db:"model"`
	Provider     string `json:"provider" db:"provider"`
	TotalTokens  int    `json:"total_tokens" db:"total_tokens"`
	RequestCount int    `json:"request_count" db:"request_count"`
}

// Operation types for categorization
const (
	OpReportGeneration = "report_generation"
)
