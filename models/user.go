package models

import (
	"time"
)

// User represents an authenticated identity. Rows are created the first
// time the identity provider hands us a user id.
type User struct {
	ID                    string     `json:"id" db:"id"`
	Name                  string     `json:"name,omitempty" db:"name"`
	Email                 string     `json:"email,omitempty" db:"email"`
	Image                 string     `json:"image,omitempty" db:"image"`
	EmailVerified         *time.Time `json:"emailVerified,omitempty" db:"email_verified"`
	LastReportGeneratedAt *time.Time `json:"lastReportGeneratedAt,omitempty" db:"last_report_generated_at"`
	CreatedAt             time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time  `json:"updatedAt" db:"updated_at"`
}

// Identity is the resolved caller of a request
type Identity struct {
	UserID        string
	DisplayName   string
	Email         string
	CalendarToken string
}
