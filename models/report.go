package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is one generated narrative summary over [StartDate, EndDate].
// Reports are append-only.
type Report struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	StartDate   time.Time `json:"startDate" db:"start_date"`
	EndDate     time.Time `json:"endDate" db:"end_date"`
	GeneratedAt time.Time `json:"generatedAt" db:"generated_at"`
	Content     string    `json:"reportContent" db:"report_content"`
}
