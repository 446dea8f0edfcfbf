package postgres

import (
	"context"

	"worklog/internal/errors"
	"worklog/models"
	"worklog/ports"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, name, email, image, email_verified, last_report_generated_at, created_at, updated_at`

// UserRepositoryImpl implements UserRepository for PostgreSQL
type UserRepositoryImpl struct {
	db *sqlx.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sqlx.DB) ports.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// EnsureUser gets the identity's user or creates it if it doesn't exist
func (r *UserRepositoryImpl) EnsureUser(ctx context.Context, identity models.Identity) (*models.User, error) {
	user, err := r.GetUserByID(ctx, identity.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, errors.CodeNotFound) {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
	`, identity.UserID, identity.Email)

	// Another request may have created the row first
	if err != nil && !isUniqueViolation(err) {
		return nil, errors.DatabaseError("failed to create user", err)
	}

	return r.GetUserByID(ctx, identity.UserID)
}

// GetUserByID retrieves a user by their ID
func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	if err != nil {
		return nil, notFoundOr(err, "User", "failed to load user")
	}
	return &user, nil
}

// SetNameOnce stores the display name if none was set yet
func (r *UserRepositoryImpl) SetNameOnce(ctx context.Context, userID, name string) (*models.User, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET name = $2, updated_at = NOW()
		WHERE id = $1 AND name = ''
	`, userID, name)
	if err != nil {
		return nil, errors.DatabaseError("failed to update name", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.DatabaseError("failed to read affected rows", err)
	}
	if n == 0 {
		// distinguish a missing user from an already named one
		if _, err := r.GetUserByID(ctx, userID); err != nil {
			return nil, err
		}
		return nil, errors.ValidationError("Name has already been set")
	}

	return r.GetUserByID(ctx, userID)
}
