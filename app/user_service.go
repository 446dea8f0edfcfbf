package app

import (
	"context"
	"strings"

	"worklog/internal/errors"
	"worklog/models"
	"worklog/ports"
)

// Profile is the caller's user row plus their report eligibility
type Profile struct {
	User     *models.User   `json:"user"`
	Cooldown CooldownStatus `json:"cooldown"`
}

// UserService manages the signed-in user's own record
type UserService struct {
	users ports.UserRepository
	gate  *CooldownGate
}

// NewUserService creates a user service
func NewUserService(users ports.UserRepository, gate *CooldownGate) *UserService {
	return &UserService{users: users, gate: gate}
}

// Ensure creates the user row on first sight of an identity
func (s *UserService) Ensure(ctx context.Context, identity models.Identity) (*models.User, error) {
	if strings.TrimSpace(identity.UserID) == "" {
		return nil, errors.Unauthorized("Unauthorized")
	}
	user, err := s.users.EnsureUser(ctx, identity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve user")
	}
	return user, nil
}

// SetName stores the display name chosen during onboarding. It can only be
// set once.
func (s *UserService) SetName(ctx context.Context, userID, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.ValidationError("Invalid name")
	}
	user, err := s.users.SetNameOnce(ctx, userID, name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update name")
	}
	return user, nil
}

// Profile returns the user together with the cooldown status
func (s *UserService) Profile(ctx context.Context, caller models.Identity) (*Profile, error) {
	user, err := s.users.GetUserByID(ctx, caller.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user")
	}
	if user.Name == "" {
		user.Name = caller.DisplayName
	}
	return &Profile{User: user, Cooldown: s.gate.Check(user.LastReportGeneratedAt)}, nil
}
