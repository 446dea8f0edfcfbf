package ports

import (
	"context"

	"worklog/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// EnsureUser returns the user for an identity, creating the row on first sight
	EnsureUser(ctx context.Context, identity models.Identity) (*models.User, error)

	// GetUserByID retrieves a user by their ID
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// SetNameOnce stores the display name if none was set yet
	SetNameOnce(ctx context.Context, userID, name string) (*models.User, error)
}
